package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// PreferenceHideAbstract is shared with the display view, do not rename.
const PreferenceHideAbstract = "AnnouncementsViewController.hideAbstract"

const (
	ViewEditDisplayPreferences = "editDisplayPreferences"
	ActionDisplayAnnouncements = "displayAnnouncements"
)

var ErrMalformedTopicID = errors.New("malformed topic id")

type SubscriptionLister interface {
	GetEditableSubscriptions(ctx context.Context, rc models.RequestContext) ([]models.TopicSubscription, error)
}

type AnnouncementProvider interface {
	GetTopic(ctx context.Context, id uint) (models.Topic, error)
	AddOrSaveTopicSubscriptions(ctx context.Context, items []models.TopicSubscription) error
}

type PreferenceStore interface {
	GetValue(key, def string) string
	SetValue(key, value string)
	Store(ctx context.Context) error
}

type ViewSelector interface {
	Select(rc models.RequestContext, name string) string
}

type EditView struct {
	View               string                     `json:"view"`
	IsGuest            bool                       `json:"is_guest"`
	TopicSubscriptions []models.TopicSubscription `json:"topic_subscriptions"`
	TopicsToUpdate     int                        `json:"topics_to_update"`
	PrefHideAbstract   bool                       `json:"pref_hide_abstract"`
}

// SubscriptionEdit is one submitted row of the edit form, kept as raw strings
// so malformed values are handled the same way for every encoding.
type SubscriptionEdit struct {
	TopicID        string `json:"topic_id"`
	SubscriptionID string `json:"topic_sub_id"`
	Subscribed     string `json:"subscribed"`
}

type PreferencesForm struct {
	Topics       []SubscriptionEdit `json:"topics" validate:"max=1000"`
	HideAbstract string             `json:"hide_abstract"`
}

// SaveOutcome describes a finished save. The subscription batch and the
// preference store are written independently, so a failed batch still comes
// with the preference applied and SubscriptionsSaved set to false.
type SaveOutcome struct {
	Subscriptions      []models.TopicSubscription `json:"subscriptions"`
	SubscriptionsSaved bool                       `json:"subscriptions_saved"`
	BatchError         error                      `json:"-"`
	HideAbstract       bool                       `json:"hide_abstract"`
	Mode               models.PortalMode          `json:"mode"`
	RenderParams       map[string]string          `json:"render_params"`
}

type PreferencesEditor struct {
	subscriptions SubscriptionLister
	announcements AnnouncementProvider
	views         ViewSelector
}

func NewPreferencesEditor(subscriptions SubscriptionLister, announcements AnnouncementProvider, views ViewSelector) *PreferencesEditor {
	return &PreferencesEditor{
		subscriptions: subscriptions,
		announcements: announcements,
		views:         views,
	}
}

// ParseBoolLike follows the portal's form convention: only "true", in any case, is true.
func ParseBoolLike(value string) bool {
	return strings.EqualFold(value, "true")
}

func (v *PreferencesEditor) IsGuest(rc models.RequestContext) bool {
	guest := rc.IsGuest()
	log.Debug().Bool("guest", guest).Str("user", rc.Owner()).Msg("Resolved guest status.")
	return guest
}

func (v *PreferencesEditor) EditPreferences(ctx context.Context, rc models.RequestContext, prefs PreferenceStore) (EditView, error) {
	subscriptions, err := v.subscriptions.GetEditableSubscriptions(ctx, rc)
	if err != nil {
		return EditView{}, err
	}
	if subscriptions == nil {
		subscriptions = []models.TopicSubscription{}
	}

	return EditView{
		View:               v.views.Select(rc, ViewEditDisplayPreferences),
		IsGuest:            v.IsGuest(rc),
		TopicSubscriptions: subscriptions,
		TopicsToUpdate:     len(subscriptions),
		PrefHideAbstract:   ParseBoolLike(prefs.GetValue(PreferenceHideAbstract, "false")),
	}, nil
}

func (v *PreferencesEditor) SavePreferences(ctx context.Context, rc models.RequestContext, prefs PreferenceStore, form PreferencesForm) (SaveOutcome, error) {
	batch := make([]models.TopicSubscription, 0, len(form.Topics))
	for idx, edit := range form.Topics {
		topicID, err := parseRecordID(edit.TopicID)
		if err != nil {
			return SaveOutcome{}, fmt.Errorf("%w %q at index %d", ErrMalformedTopicID, edit.TopicID, idx)
		}
		subscribed := ParseBoolLike(edit.Subscribed)

		topic, err := v.announcements.GetTopic(ctx, topicID)
		if err != nil {
			return SaveOutcome{}, err
		}
		// Forced topics cannot be opted out of, whatever the client sent.
		if topic.IsForced() {
			subscribed = true
		}

		subscription := models.NewTopicSubscription(rc.Owner(), topic, subscribed)
		if subID := strings.TrimSpace(edit.SubscriptionID); len(subID) > 0 {
			if id, err := parseRecordID(subID); err != nil {
				log.Debug().Err(err).Int("index", idx).Str("id", subID).Msg("Ignored malformed subscription id, saving as new subscription.")
			} else {
				subscription.ID = id
			}
		}

		batch = append(batch, subscription)
	}

	outcome := SaveOutcome{Subscriptions: batch, SubscriptionsSaved: true}
	if len(batch) > 0 {
		if err := v.announcements.AddOrSaveTopicSubscriptions(ctx, batch); err != nil {
			log.Error().Err(err).Str("user", rc.Owner()).Msg("An error occurred when saving topic subscriptions...")
			outcome.SubscriptionsSaved = false
			outcome.BatchError = err
		}
	}

	outcome.HideAbstract = ParseBoolLike(form.HideAbstract)
	prefs.SetValue(PreferenceHideAbstract, strconv.FormatBool(outcome.HideAbstract))
	if err := prefs.Store(ctx); err != nil {
		return outcome, err
	}

	outcome.Mode = models.PortalModeView
	outcome.RenderParams = map[string]string{"action": ActionDisplayAnnouncements}
	return outcome, nil
}

// parseRecordID accepts a signed decimal and rejects ids that cannot exist.
func parseRecordID(raw string) (uint, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("record id %d is not positive", id)
	}
	return uint(id), nil
}
