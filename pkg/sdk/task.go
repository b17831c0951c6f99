package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rodneyosodo/fedmean/average"
)

const tasksEndpoint = "/tasks"

type Params struct {
	ColumnName string `json:"column_name"`
	DropNA     bool   `json:"drop_na"`
}

// Partial aliases the domain type so the NaN wire convention decodes
// the same way on both ends.
type Partial = average.Partial

type Task struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Method     string    `json:"method,omitempty"`
	Params     Params    `json:"params"`
	OrgIDs     []string  `json:"org_ids,omitempty"`
	State      uint8     `json:"state,omitempty"`
	Results    []Partial `json:"results,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartTime  time.Time `json:"start_time"`
	FinishTime time.Time `json:"finish_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TaskPage struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Tasks  []Task `json:"tasks"`
}

func (sdk *fedSDK) CreateTask(task Task) (Task, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return Task{}, err
	}

	url := sdk.coordinatorURL + tasksEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, http.StatusCreated)
	if err != nil {
		return Task{}, err
	}

	var t Task
	if err := json.Unmarshal(body, &t); err != nil {
		return Task{}, err
	}

	return t, nil
}

func (sdk *fedSDK) GetTask(id string) (Task, error) {
	url := sdk.coordinatorURL + tasksEndpoint + "/" + id

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Task{}, err
	}

	var t Task
	if err := json.Unmarshal(body, &t); err != nil {
		return Task{}, err
	}

	return t, nil
}

func (sdk *fedSDK) ListTasks(offset, limit uint64) (TaskPage, error) {
	url := sdk.coordinatorURL + tasksEndpoint + pageQuery(offset, limit)

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return TaskPage{}, err
	}

	var page TaskPage
	if err := json.Unmarshal(body, &page); err != nil {
		return TaskPage{}, err
	}

	return page, nil
}

func (sdk *fedSDK) UpdateTask(task Task) (Task, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return Task{}, err
	}
	url := sdk.coordinatorURL + tasksEndpoint + "/" + task.ID

	body, err := sdk.processRequest(http.MethodPut, url, data, http.StatusOK)
	if err != nil {
		return Task{}, err
	}

	var t Task
	if err := json.Unmarshal(body, &t); err != nil {
		return Task{}, err
	}

	return t, nil
}

func (sdk *fedSDK) DeleteTask(id string) error {
	url := sdk.coordinatorURL + tasksEndpoint + "/" + id

	_, err := sdk.processRequest(http.MethodDelete, url, nil, http.StatusNoContent)

	return err
}

func (sdk *fedSDK) StartTask(id string) (Task, error) {
	url := sdk.coordinatorURL + tasksEndpoint + "/" + id + "/start"

	body, err := sdk.processRequest(http.MethodPost, url, nil, http.StatusOK)
	if err != nil {
		return Task{}, err
	}

	var t Task
	if err := json.Unmarshal(body, &t); err != nil {
		return Task{}, err
	}

	return t, nil
}

func (sdk *fedSDK) GetTaskResults(id string) ([]Partial, error) {
	url := sdk.coordinatorURL + tasksEndpoint + "/" + id + "/results"

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []Partial `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	return resp.Results, nil
}

func pageQuery(offset, limit uint64) string {
	queries := make([]string, 0)
	if offset > 0 {
		queries = append(queries, fmt.Sprintf("offset=%d", offset))
	}
	if limit > 0 {
		queries = append(queries, fmt.Sprintf("limit=%d", limit))
	}
	if len(queries) == 0 {
		return ""
	}

	return "?" + strings.Join(queries, "&")
}
