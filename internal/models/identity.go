package models

// TrackIdentity is the transient, partially-known identity of a track across
// platforms. Adapters produce one each; the resolver merges them. Empty
// string means "unknown on that platform".
type TrackIdentity struct {
	Title        string
	Artist       string
	SpotifyURI   string
	AppleMusicID string
	SoundCloudID string
}

// Empty reports whether the identity carries no information at all.
func (id TrackIdentity) Empty() bool {
	return id == TrackIdentity{}
}

// Merge overlays fallback onto id, keeping every field id already set.
// Identifiers recovered from the submitted URL therefore always win over
// search results, regardless of the order fallbacks arrive in.
func (id TrackIdentity) Merge(fallback TrackIdentity) TrackIdentity {
	if id.Title == "" {
		id.Title = fallback.Title
	}
	if id.Artist == "" {
		id.Artist = fallback.Artist
	}
	if id.SpotifyURI == "" {
		id.SpotifyURI = fallback.SpotifyURI
	}
	if id.AppleMusicID == "" {
		id.AppleMusicID = fallback.AppleMusicID
	}
	if id.SoundCloudID == "" {
		id.SoundCloudID = fallback.SoundCloudID
	}
	return id
}

// NewTrack builds an unsaved Track from a merged identity and the submitting
// user. The title is guaranteed non-empty because the resolver falls back to
// the raw URL.
func NewTrack(identity TrackIdentity, url string, user SoftUser) *Track {
	title := identity.Title
	if title == "" {
		title = url
	}
	return &Track{
		Title:        title,
		URL:          url,
		AddedBy:      user.Name,
		Team:         FilterFrom(user.Team).Ptr(),
		Role:         FilterFrom(user.Role).Ptr(),
		AppleMusicID: optional(identity.AppleMusicID),
		SpotifyURI:   optional(identity.SpotifyURI),
		SoundCloudID: optional(identity.SoundCloudID),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
