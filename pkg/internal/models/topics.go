package models

type SubscriptionMethod = int

// Values are shared with the portal's announcement topic table.
const (
	SubscriptionPushedForced = SubscriptionMethod(iota + 1)
	SubscriptionPushedInitial
	SubscriptionPulled
	SubscriptionEmergency
)

type Topic struct {
	BaseModel

	Title              string             `json:"title" validate:"required"`
	Description        string             `json:"description"`
	SubscriptionMethod SubscriptionMethod `json:"subscription_method" validate:"min=1,max=4"`
	AllowRss           bool               `json:"allow_rss"`
}

func (v Topic) IsForced() bool {
	return v.SubscriptionMethod == SubscriptionPushedForced
}

// DefaultSubscribed reports whether a user who never touched the topic
// receives its announcements.
func (v Topic) DefaultSubscribed() bool {
	return v.SubscriptionMethod != SubscriptionPulled
}
