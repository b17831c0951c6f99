package sdk

import (
	"encoding/json"
	"net/http"
	"time"
)

const organizationsEndpoint = "/organizations"

type Organization struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	TaskCount    uint64      `json:"task_count"`
	Alive        bool        `json:"alive"`
	AliveHistory []time.Time `json:"alive_history"`
}

type OrganizationPage struct {
	Offset        uint64         `json:"offset"`
	Limit         uint64         `json:"limit"`
	Total         uint64         `json:"total"`
	Organizations []Organization `json:"organizations"`
}

func (sdk *fedSDK) ListOrganizations(offset, limit uint64) (OrganizationPage, error) {
	url := sdk.coordinatorURL + organizationsEndpoint + pageQuery(offset, limit)

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return OrganizationPage{}, err
	}

	var page OrganizationPage
	if err := json.Unmarshal(body, &page); err != nil {
		return OrganizationPage{}, err
	}

	return page, nil
}

func (sdk *fedSDK) GetOrganization(id string) (Organization, error) {
	url := sdk.coordinatorURL + organizationsEndpoint + "/" + id

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Organization{}, err
	}

	var o Organization
	if err := json.Unmarshal(body, &o); err != nil {
		return Organization{}, err
	}

	return o, nil
}

func (sdk *fedSDK) DeleteOrganization(id string) error {
	url := sdk.coordinatorURL + organizationsEndpoint + "/" + id

	_, err := sdk.processRequest(http.MethodDelete, url, nil, http.StatusNoContent)

	return err
}
