package models

type PortalMode = string

const (
	PortalModeView = PortalMode("VIEW")
	PortalModeEdit = PortalMode("EDIT")
)

// RequestContext carries what the hosting portal tells us about the caller.
type RequestContext struct {
	RemoteUser *string
	Instance   string
	UserAgent  string
}

func (v RequestContext) IsGuest() bool {
	return v.RemoteUser == nil
}

// Owner is the key persisted records are stored under, guests share the empty owner.
func (v RequestContext) Owner() string {
	if v.RemoteUser == nil {
		return ""
	}
	return *v.RemoteUser
}
