package sdk

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

const CTJSON string = "application/json"

type SDK interface {
	// CreateTask creates a new task.
	//
	// example:
	//  task := sdk.Task{
	//    Params: sdk.Params{ColumnName: "age"},
	//  }
	//  task, _ := sdk.CreateTask(task)
	//  fmt.Println(task)
	CreateTask(task Task) (Task, error)

	// GetTask gets a task by id.
	//
	// example:
	//  task, _ := sdk.GetTask("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	//  fmt.Println(task)
	GetTask(id string) (Task, error)

	// ListTasks lists tasks.
	//
	// example:
	//  taskPage, _ := sdk.ListTasks(0, 10)
	//  fmt.Println(taskPage)
	ListTasks(offset, limit uint64) (TaskPage, error)

	// UpdateTask updates a task.
	UpdateTask(task Task) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(id string) error

	// StartTask fans a task out to its targeted organizations.
	StartTask(id string) (Task, error)

	// GetTaskResults returns the partials collected for a task so far.
	GetTaskResults(id string) ([]Partial, error)

	// ListOrganizations lists organizations in the collaboration.
	ListOrganizations(offset, limit uint64) (OrganizationPage, error)

	// GetOrganization gets an organization by id.
	GetOrganization(id string) (Organization, error)

	// DeleteOrganization removes an organization from the registry.
	DeleteOrganization(id string) error

	// Average runs the full federated average and blocks until the
	// coordinator has reduced all partials.
	//
	// example:
	//  res, _ := sdk.Average(sdk.AverageRequest{ColumnName: "age"})
	//  fmt.Println(res.Average)
	Average(req AverageRequest) (AverageResult, error)
}

type Config struct {
	CoordinatorURL  string
	TLSVerification bool
}

type fedSDK struct {
	coordinatorURL string
	client         *http.Client
}

func NewSDK(cfg Config) SDK {
	return &fedSDK{
		coordinatorURL: cfg.CoordinatorURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *fedSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != expectedRespCode {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, body)
	}

	return body, nil
}
