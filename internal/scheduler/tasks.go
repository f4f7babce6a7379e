package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskReportEmail = "reports.email"

const TaskLeadRecalculation = "leads.recalculate_all"

type ReportEmailPayload struct {
	LeadID string `json:"leadId"`
}

type LeadRecalculationPayload struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}

func NewReportEmailTask(payload ReportEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportEmail, data), nil
}

func ParseReportEmailPayload(task *asynq.Task) (ReportEmailPayload, error) {
	var payload ReportEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReportEmailPayload{}, err
	}
	return payload, nil
}

func NewLeadRecalculationTask(payload LeadRecalculationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRecalculation, data), nil
}

func ParseLeadRecalculationPayload(task *asynq.Task) (LeadRecalculationPayload, error) {
	var payload LeadRecalculationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRecalculationPayload{}, err
	}
	return payload, nil
}
