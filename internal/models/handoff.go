package models

// Interaction channel types understood by the agent desk.
const (
	InteractionChannelWhatsApp = "whatsapp"
	InteractionChannelSMS      = "sms"
	InteractionChannelWeb      = "web"
	InteractionChannelChat     = "chat"
)

// Interaction describes a conversation routed to a human agent queue.
type Interaction struct {
	ChannelType     string
	MediaChannelSID string
	WorkspaceSID    string
	WorkflowSID     string
	TaskChannel     string
	From            string
	CustomerName    string
	CustomerAddress string
}
