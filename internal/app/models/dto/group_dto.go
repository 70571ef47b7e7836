package dto

// ParticipantRequest identifies one provider participant, e.g. "15551234567@c.us"
type ParticipantRequest struct {
	ID string `json:"id" example:"15551234567@c.us"`
}

// AddParticipantsRequest is the body of the invitation endpoint. Only the
// first participant is invited; names are used for the invite message.
type AddParticipantsRequest struct {
	Participants []ParticipantRequest `json:"participants"`
	StudentName  string               `json:"studentName,omitempty" binding:"max=200" example:"Ada"`
	CourseName   string               `json:"courseName,omitempty" binding:"max=200" example:"Intro to Go"`
}

// ParticipantIDs returns the raw ids in request order
func (r *AddParticipantsRequest) ParticipantIDs() []string {
	ids := make([]string, 0, len(r.Participants))
	for _, p := range r.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}

// InvitationResponse is the data of an invitation outcome
type InvitationResponse struct {
	Status               string      `json:"status" enums:"ADDED,INVITE_LINK_READY,FAILED"`
	ParticipantID        string      `json:"participantId"`
	ProviderResponse     interface{} `json:"providerResponse,omitempty" swaggertype:"object"`
	InviteLink           string      `json:"inviteLink,omitempty" example:"https://chat.whatsapp.com/ABC123"`
	InviteMessage        string      `json:"inviteMessage,omitempty"`
	DirectAddError       string      `json:"directAddError,omitempty"`
	InviteError          string      `json:"inviteError,omitempty"`
	ManualActionRequired bool        `json:"manualActionRequired,omitempty"`
}
