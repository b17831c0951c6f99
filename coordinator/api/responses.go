package api

import (
	"net/http"

	"github.com/absmach/supermq"

	"github.com/rodneyosodo/fedmean/average"
	"github.com/rodneyosodo/fedmean/organization"
	"github.com/rodneyosodo/fedmean/task"
)

var (
	_ supermq.Response = (*organizationResponse)(nil)
	_ supermq.Response = (*listOrganizationResponse)(nil)
	_ supermq.Response = (*taskResponse)(nil)
	_ supermq.Response = (*listTaskResponse)(nil)
	_ supermq.Response = (*resultsResponse)(nil)
	_ supermq.Response = (*averageResponse)(nil)
)

type organizationResponse struct {
	organization.Organization
	deleted bool
}

func (o organizationResponse) Code() int {
	if o.deleted {
		return http.StatusNoContent
	}

	return http.StatusOK
}

func (o organizationResponse) Headers() map[string]string {
	return map[string]string{}
}

func (o organizationResponse) Empty() bool {
	return o.deleted
}

type listOrganizationResponse struct {
	organization.OrganizationPage
}

func (l listOrganizationResponse) Code() int {
	return http.StatusOK
}

func (l listOrganizationResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listOrganizationResponse) Empty() bool {
	return false
}

type taskResponse struct {
	task.Task
	created bool
	deleted bool
}

func (t taskResponse) Code() int {
	if t.created {
		return http.StatusCreated
	}
	if t.deleted {
		return http.StatusNoContent
	}

	return http.StatusOK
}

func (t taskResponse) Headers() map[string]string {
	if t.created {
		return map[string]string{
			"Location": "/tasks/" + t.ID,
		}
	}

	return map[string]string{}
}

func (t taskResponse) Empty() bool {
	return t.deleted
}

type listTaskResponse struct {
	task.TaskPage
}

func (l listTaskResponse) Code() int {
	return http.StatusOK
}

func (l listTaskResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listTaskResponse) Empty() bool {
	return false
}

type resultsResponse struct {
	Results []average.Partial `json:"results"`
}

func (r resultsResponse) Code() int {
	return http.StatusOK
}

func (r resultsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r resultsResponse) Empty() bool {
	return false
}

type averageResponse struct {
	average.Result
}

func (a averageResponse) Code() int {
	return http.StatusOK
}

func (a averageResponse) Headers() map[string]string {
	return map[string]string{}
}

func (a averageResponse) Empty() bool {
	return false
}
