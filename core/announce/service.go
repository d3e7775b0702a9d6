package announce

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/notification"
	"github.com/virtuallab/portal/core/realtime"
	"github.com/virtuallab/portal/core/user"
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		// QueryAnnouncements returns all announcements, newest first.
		QueryAnnouncements(ctx context.Context) ([]Announcement, error)
	}

	Service struct {
		repo     Repository
		usrSvc   *user.Service
		notifSvc *notification.Service
		mailSvc  core.EmailService
		changes  *realtime.Hub
		logger   core.Logger
	}
)

func NewService(repo Repository, usrSvc *user.Service, notifSvc *notification.Service, mailSvc core.EmailService, changes *realtime.Hub, logger core.Logger) *Service {
	return &Service{repo: repo, usrSvc: usrSvc, notifSvc: notifSvc, mailSvc: mailSvc, changes: changes, logger: logger}
}

// Create persists the announcement, then fans out an unread notification and
// a broadcast email to every active user. Fan-out is best effort: the
// announcement is already durable, so a fan-out failure is logged and the
// created record is still returned without error.
func (svc *Service) Create(ctx context.Context, userID string, na NewAnnouncement) (Announcement, error) {
	ann := Announcement{
		Title:     na.Title,
		Content:   na.Content,
		Tag:       na.Tag,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	sctx, cancel := core.StoreContext(ctx)
	defer cancel()
	ann, err := svc.repo.CreateAnnouncement(sctx, ann)
	if err != nil {
		return Announcement{}, errors.Wrap(err, "creating announcement")
	}
	svc.changes.Publish(realtime.CollectionAnnouncements)

	if err := svc.fanOut(ctx, ann); err != nil && svc.logger != nil {
		svc.logger.Warn("announcement fan-out failed", errors.Wrap(err, "announcement fan-out"))
	}
	return ann, nil
}

func (svc *Service) fanOut(ctx context.Context, ann Announcement) error {
	users, err := svc.usrSvc.QueryActive(ctx)
	if err != nil {
		return errors.Wrap(err, "querying active users")
	}
	userIDs := make([]string, 0, len(users))
	addrs := make([]mail.Address, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
		if u.Email != "" {
			addrs = append(addrs, mail.Address{Name: u.Name, Address: u.Email})
		}
	}

	if err := svc.notifSvc.Broadcast(ctx, userIDs, "New announcement: "+ann.Title); err != nil {
		return err
	}
	if svc.mailSvc != nil && len(addrs) > 0 {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			Bcc:     addrs,
			Subject: ann.Title,
			Body:    ann.Content,
		})
	}
	return nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Announcement, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	return svc.repo.QueryAnnouncements(ctx)
}
