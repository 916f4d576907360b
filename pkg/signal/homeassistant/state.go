package homeassistant

import (
	"encoding/json"
	"time"

	"github.com/blaubaer/zen-master/pkg/session"
)

type stateGetResponse struct {
	EntityId     string         `json:"entity_id"`
	State        string         `json:"state"`
	Attributes   map[string]any `json:"attributes"`
	LastChanged  time.Time      `json:"last_changed"`
	LastReported time.Time      `json:"last_reported"`
	LastUpdated  time.Time      `json:"last_updated"`
	Context      map[string]any `json:"context"`
}

func (this *stateGetResponse) getAttrSession() (stateAttrSession, error) {
	var result stateAttrSession
	if this.Attributes != nil {
		if plain, ok := this.Attributes["session"]; ok {
			if err := result.unmarshalFromAny(plain); err != nil {
				return stateAttrSession{}, err
			}
		}
	}
	return result, nil
}

type statePostRequest struct {
	State      session.Phase  `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (this *statePostRequest) setAttrSession(v stateAttrSession) {
	if this.Attributes == nil {
		this.Attributes = make(map[string]any)
	}
	this.Attributes["session"] = v
}

type stateAttrSession struct {
	Still              bool `json:"still"`
	CountdownRemaining int  `json:"countdownRemaining,omitempty"`
	RemainingSeconds   int  `json:"remainingSeconds,omitempty"`
	SelectedSeconds    int  `json:"selectedSeconds,omitempty"`
}

func (this *stateAttrSession) unmarshalFromAny(in any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, this)
}

func (this stateAttrSession) isEqualTo(o *stateAttrSession) bool {
	return this.Still == o.Still &&
		this.CountdownRemaining == o.CountdownRemaining &&
		this.RemainingSeconds == o.RemainingSeconds &&
		this.SelectedSeconds == o.SelectedSeconds
}
