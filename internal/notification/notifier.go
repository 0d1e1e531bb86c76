// Package notification mengirim pemberitahuan ke kotak masuk warga dan (opsional) email.
// Semua pengiriman bersifat best-effort: kegagalan hanya dicatat di log.
package notification

import (
	"context"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type Message struct {
	Category string
	Title    string
	Body     string
	Link     string
	Metadata map[string]interface{}
}

// Notifier tidak pernah mengembalikan error ke pemanggil.
type Notifier interface {
	NotifyResidents(ctx context.Context, residentIDs []uint, msg Message)
	NotifyAdmins(ctx context.Context, msg Message)
	NotifyEmail(ctx context.Context, email string, msg Message)
}

type Dispatcher struct {
	inbox     repository.NotificationRepository
	residents repository.ResidentRepository
	mailer    Mailer
	log       *logrus.Logger
}

// NewDispatcher membuat Dispatcher. mailer boleh nil jika SMTP tidak dikonfigurasi.
func NewDispatcher(inbox repository.NotificationRepository, residents repository.ResidentRepository, mailer Mailer, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{inbox: inbox, residents: residents, mailer: mailer, log: log}
}

func (d *Dispatcher) NotifyResidents(ctx context.Context, residentIDs []uint, msg Message) {
	if len(residentIDs) == 0 {
		return
	}
	rows := make([]model.Notification, 0, len(residentIDs))
	for _, id := range residentIDs {
		rows = append(rows, toModel(id, msg))
	}
	if err := d.inbox.CreateMany(ctx, rows); err != nil {
		d.warn(apperror.Dependency("gagal menyimpan notifikasi", err), msg, logrus.Fields{"recipients": len(rows)})
	}
}

func (d *Dispatcher) NotifyAdmins(ctx context.Context, msg Message) {
	admins, err := d.residents.ListAdmins(ctx)
	if err != nil {
		d.warn(apperror.Dependency("gagal mengambil daftar admin", err), msg, nil)
		return
	}
	ids := make([]uint, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}
	d.NotifyResidents(ctx, ids, msg)
}

// NotifyEmail mengirim ke kotak masuk akun dengan email tersebut (jika ada) dan ke alamat emailnya.
func (d *Dispatcher) NotifyEmail(ctx context.Context, email string, msg Message) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return
	}

	res, err := d.residents.FindByEmail(ctx, email)
	switch {
	case err == nil:
		d.NotifyResidents(ctx, []uint{res.ID}, msg)
	case apperror.Is(err, apperror.KindNotFound):
		d.log.WithField("email", email).Debug("Tidak ada akun dengan email ini, notifikasi kotak masuk dilewati")
	default:
		d.warn(apperror.Dependency("gagal mencari akun", err), msg, logrus.Fields{"email": email})
	}

	if d.mailer == nil {
		return
	}
	if err := d.mailer.Send(ctx, email, msg.Title, msg.Body); err != nil {
		d.warn(apperror.Dependency("gagal mengirim email", err), msg, logrus.Fields{"email": email})
	}
}

func (d *Dispatcher) warn(err error, msg Message, fields logrus.Fields) {
	entry := d.log.WithError(err).WithField("title", msg.Title)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Warn("Notifikasi gagal dikirim")
}

func toModel(residentID uint, msg Message) model.Notification {
	n := model.Notification{
		ResidentID: residentID,
		Category:   msg.Category,
		Title:      msg.Title,
		Message:    msg.Body,
	}
	if n.Category == "" {
		n.Category = model.CategoryInfo
	}
	if msg.Link != "" {
		link := msg.Link
		n.Link = &link
	}
	if len(msg.Metadata) > 0 {
		n.Metadata = datatypes.JSONMap(msg.Metadata)
	}
	return n
}

// Nop dipakai bila notifikasi dimatikan.
type Nop struct{}

func (Nop) NotifyResidents(context.Context, []uint, Message) {}
func (Nop) NotifyAdmins(context.Context, Message)            {}
func (Nop) NotifyEmail(context.Context, string, Message)     {}
