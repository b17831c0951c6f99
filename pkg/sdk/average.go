package sdk

import (
	"encoding/json"
	"net/http"

	"github.com/rodneyosodo/fedmean/average"
)

const averagesEndpoint = "/averages"

type AverageRequest struct {
	ColumnName string   `json:"column_name"`
	OrgIDs     []string `json:"org_ids,omitempty"`
	DropNA     bool     `json:"drop_na"`
}

type AverageResult = average.Result

func (sdk *fedSDK) Average(req AverageRequest) (AverageResult, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return AverageResult{}, err
	}

	url := sdk.coordinatorURL + averagesEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, http.StatusOK)
	if err != nil {
		return AverageResult{}, err
	}

	var res AverageResult
	if err := json.Unmarshal(body, &res); err != nil {
		return AverageResult{}, err
	}

	return res, nil
}
