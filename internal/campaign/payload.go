package campaign

// CampaignPayload is the shot body submitted to the backend.
type CampaignPayload struct {
	ContactsID        string          `json:"contactsId"`
	ConnectionsSelect []string        `json:"connectionsSelect"`
	Messages          [][]MessageStep `json:"messages"`
	Config            ScheduleConfig  `json:"config"`
}

// BuildPayload compiles the editor content and assembles a validated
// campaign payload. Validation failures come back as *ValidationError
// so handlers can surface the exact missing piece.
func BuildPayload(editor *Editor, contactsID string, connections []string, cfg ScheduleConfig, pick Picker) (*CampaignPayload, error) {
	if contactsID == "" {
		return nil, NewValidationError(MissingContactsList)
	}
	if len(connections) == 0 {
		return nil, NewValidationError(MissingConnections)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	messages := CompileCampaign(editor.Variations, pick)
	if len(messages) == 0 {
		return nil, NewValidationError(EmptyMessageContent)
	}

	return &CampaignPayload{
		ContactsID:        contactsID,
		ConnectionsSelect: connections,
		Messages:          messages,
		Config:            cfg,
	}, nil
}
