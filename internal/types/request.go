package types

import "github.com/zapshots/shots-console-api/internal/campaign"

type RequestLogin struct {
	Login string `json:"login"`
	Pass  string `json:"pass"`
}

type RequestShot struct {
	Name              string                   `json:"name"`
	ContactsID        string                   `json:"contactsId"`
	ConnectionsSelect []string                 `json:"connectionsSelect"`
	Variations        []campaign.Variation     `json:"variations"`
	Config            campaign.ScheduleConfig  `json:"config"`
	Seed              *int64                   `json:"seed,omitempty"`
}

type RequestDetach struct {
	Variations []campaign.Variation `json:"variations"`
	Variation  int                  `json:"variation"`
	Kind       string               `json:"kind"`
	Occurrence int                  `json:"occurrence"`
}

type RequestPreview struct {
	Variations []campaign.Variation `json:"variations"`
	Seed       *int64               `json:"seed,omitempty"`
}

type RequestCreateConnection struct {
	InstanceName string `json:"instanceName"`
	Heater       bool   `json:"heater"`
}

type RequestDeleteContacts struct {
	IDsDelete []string `json:"idsDelete"`
}

type RequestHeater struct {
	Name              string   `json:"name"`
	ConnectionsSelect []string `json:"connectionsSelect"`
	ConnectionHeater  string   `json:"connectionHeater"`
	Time              string   `json:"time"`
}

type RequestUser struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Pass       string `json:"pass,omitempty"`
	Permission string `json:"permission"`
}

type RequestDashRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RequestDraft struct {
	Name              string                  `json:"name"`
	ContactsID        string                  `json:"contactsId"`
	ConnectionsSelect []string                `json:"connectionsSelect"`
	Editor            campaign.Editor         `json:"editor"`
	Config            campaign.ScheduleConfig `json:"config"`
}
