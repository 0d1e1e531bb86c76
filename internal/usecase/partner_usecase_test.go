package usecase

import (
	"context"
	"testing"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTodaysPartners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	avatar := "/uploads/profile/siti.jpg"
	siti := f.store.AddResident(model.Resident{Name: "Siti Aminah", Email: "siti.a@kampung.id", WardUnit: "01", Photo: &avatar})
	andi := f.store.AddResident(model.Resident{Name: "Andi", Email: "andi@kampung.id", WardUnit: "01"})

	unit := f.marchUnit(t)
	f.assign(t, unit.ID, "Budi", "BUDI@kampung.id", 10)
	f.assign(t, unit.ID, "Siti", siti.Email, 10)
	f.assign(t, unit.ID, "Pak Joko", "", 10)
	f.assign(t, unit.ID, "Andi", andi.Email, 11)

	got, err := f.partners.FindTodaysPartners(ctx, f.budi.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", got.Date)
	assert.Equal(t, unit.ID, got.RosterUnitID)
	assert.Empty(t, got.Message)
	require.Len(t, got.Partners, 2)

	assert.Equal(t, "Siti", got.Partners[0].GuardName)
	require.NotNil(t, got.Partners[0].Photo)
	assert.Equal(t, avatar, *got.Partners[0].Photo)
	assert.Equal(t, "Selasa", got.Partners[0].Weekday)

	assert.Equal(t, "Pak Joko", got.Partners[1].GuardName, "petugas tanpa email tetap tampil")
	assert.Nil(t, got.Partners[1].Photo)

	for _, p := range got.Partners {
		assert.NotEqual(t, "budi@kampung.id", p.Email, "diri sendiri tidak termasuk")
	}
}

func TestFindTodaysPartners_NotOnDuty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unit := f.marchUnit(t)
	f.assign(t, unit.ID, "Siti", "siti@kampung.id", 10)
	f.assign(t, unit.ID, "Budi", "budi@kampung.id", 11)

	got, err := f.partners.FindTodaysPartners(ctx, f.budi.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Partners)
	assert.Empty(t, got.Partners, "warga yang tidak bertugas tidak melihat petugas lain")
	assert.Equal(t, msgNotScheduled, got.Message)

	f.clock.Set(at(12, 19, 0))
	got, err = f.partners.FindTodaysPartners(ctx, f.budi.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Partners)
	assert.Equal(t, msgNoDutyToday, got.Message)
}

func TestFindTodaysPartners_NoRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.marchUnit(t)

	rt2 := f.store.AddResident(model.Resident{Name: "Wati", Email: "wati@kampung.id", WardUnit: "02"})
	got, err := f.partners.FindTodaysPartners(ctx, rt2.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Partners)
	assert.Equal(t, msgNoRosterThisMonth, got.Message)
	assert.Equal(t, "02", got.WardUnit)

	_, err = f.partners.FindTodaysPartners(ctx, 404)
	requireKind(t, err, apperror.KindNotFound)
}

func TestFindTodaysPartners_UsesWardTimezone(t *testing.T) {
	f := newFixture(t)
	unit := f.marchUnit(t)
	f.assign(t, unit.ID, "Budi", "budi@kampung.id", 11)
	f.assign(t, unit.ID, "Siti", "siti@kampung.id", 11)

	// 10 Maret 17:30 UTC sudah 11 Maret 00:30 WIB.
	f.clock.Set(at(11, 0, 30).UTC())
	got, err := f.partners.FindTodaysPartners(context.Background(), f.budi.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", got.Date)
	require.Len(t, got.Partners, 1)
	assert.Equal(t, "Siti", got.Partners[0].GuardName)
}
