package organization

import "time"

const aliveTimeout = 10 * time.Second

// Organization is an independent party holding private local data and
// participating in the collaboration through its node.
type Organization struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	TaskCount    uint64      `json:"task_count"`
	Alive        bool        `json:"alive"`
	AliveHistory []time.Time `json:"alive_history"`
}

func (o *Organization) SetAlive() {
	if len(o.AliveHistory) > 0 {
		lastAlive := o.AliveHistory[len(o.AliveHistory)-1]
		if time.Since(lastAlive) <= aliveTimeout {
			o.Alive = true

			return
		}
	}
	o.Alive = false
}

type OrganizationPage struct {
	Offset        uint64         `json:"offset"`
	Limit         uint64         `json:"limit"`
	Total         uint64         `json:"total"`
	Organizations []Organization `json:"organizations"`
}
