package api

import (
	"time"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/checker"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
)

// CheckerTaskMessage is the task body posted by the game host. Timeout and
// RoundLength are milliseconds.
type CheckerTaskMessage struct {
	TaskID         int64   `json:"taskId"`
	Method         string  `json:"method"`
	Address        string  `json:"address"`
	TeamID         int64   `json:"teamId"`
	TeamName       string  `json:"teamName"`
	CurrentRoundID int64   `json:"currentRoundId"`
	RelatedRoundID int64   `json:"relatedRoundId"`
	Flag           *string `json:"flag"`
	VariantID      int64   `json:"variantId"`
	Timeout        int64   `json:"timeout"`
	RoundLength    int64   `json:"roundLength"`
	TaskChainID    string  `json:"taskChainId"`
	FlagRegex      *string `json:"flagRegex"`
	FlagHash       *string `json:"flagHash"`
	AttackInfo     *string `json:"attackInfo"`
}

// CheckerResultMessage is the answer to a task. Unset fields are null.
type CheckerResultMessage struct {
	Result     string  `json:"result"`
	Message    *string `json:"message"`
	AttackInfo *string `json:"attackInfo"`
	Flag       *string `json:"flag"`
}

// CheckerInfoMessage is served on GET /service.
type CheckerInfoMessage struct {
	ServiceName     string `json:"serviceName"`
	FlagVariants    int    `json:"flagVariants"`
	NoiseVariants   int    `json:"noiseVariants"`
	HavocVariants   int    `json:"havocVariants"`
	ExploitVariants int    `json:"exploitVariants"`
}

func (m *CheckerTaskMessage) toTask() *models.Task {
	return &models.Task{
		ID:             m.TaskID,
		Method:         m.Method,
		Address:        m.Address,
		TeamID:         m.TeamID,
		TeamName:       m.TeamName,
		CurrentRoundID: m.CurrentRoundID,
		RelatedRoundID: m.RelatedRoundID,
		Flag:           deref(m.Flag),
		VariantID:      m.VariantID,
		Timeout:        time.Duration(m.Timeout) * time.Millisecond,
		RoundLength:    time.Duration(m.RoundLength) * time.Millisecond,
		TaskChainID:    m.TaskChainID,
		FlagRegex:      deref(m.FlagRegex),
		FlagHash:       deref(m.FlagHash),
		AttackInfo:     deref(m.AttackInfo),
	}
}

func infoMessage(info checker.ServiceInfo) CheckerInfoMessage {
	return CheckerInfoMessage{
		ServiceName:     info.ServiceName,
		FlagVariants:    info.FlagVariants,
		NoiseVariants:   info.NoiseVariants,
		HavocVariants:   info.HavocVariants,
		ExploitVariants: info.ExploitVariants,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
