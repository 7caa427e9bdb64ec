package models

import "time"

// Task methods understood by the checker.
const (
	MethodPutFlag  = "putflag"
	MethodGetFlag  = "getflag"
	MethodPutNoise = "putnoise"
	MethodGetNoise = "getnoise"
	MethodHavoc    = "havoc"
	MethodExploit  = "exploit"
)

// Task describes one check invocation handed over by the host.
type Task struct {
	ID             int64
	Method         string
	Address        string
	TeamID         int64
	TeamName       string
	CurrentRoundID int64
	RelatedRoundID int64
	Flag           string
	VariantID      int64
	Timeout        time.Duration
	RoundLength    time.Duration
	TaskChainID    string
	FlagRegex      string
	FlagHash       string
	AttackInfo     string
}
