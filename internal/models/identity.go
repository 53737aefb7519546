package models

// IdentityField is the guardian column an identity descriptor is matched against.
type IdentityField string

const (
	IdentityEmail IdentityField = "email"
	IdentityPhone IdentityField = "phone"
)

// Channel names the prefix an identity descriptor arrived with.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelPhone    Channel = "phone"
	ChannelWhatsApp Channel = "whatsapp"
)

// Identity is a resolved x-identity descriptor.
type Identity struct {
	Field   IdentityField
	Value   string
	Channel Channel
}

// PhoneCapable reports whether SMS can be delivered to the identity.
func (i Identity) PhoneCapable() bool {
	return i.Field == IdentityPhone
}
