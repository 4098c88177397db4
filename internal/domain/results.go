package domain

import "time"

// CandidateStanding is one candidate's position within its department race.
type CandidateStanding struct {
	Candidate
	Rank       int     `json:"rank"`
	Percentage float64 `json:"percentage"`
	IsLeading  bool    `json:"is_leading"`
}

// DepartmentResult ranks the candidates of one race.
type DepartmentResult struct {
	Department Department          `json:"department"`
	Candidates []CandidateStanding `json:"candidates"`
	TotalVotes int                 `json:"total_votes"`
}

// ElectionResults is the live tally view served to the admin dashboard.
type ElectionResults struct {
	Departments []DepartmentResult `json:"departments"`
	TotalVotes  int                `json:"total_votes"`
	BallotsCast int                `json:"ballots_cast"`
	LastUpdate  time.Time          `json:"last_update"`
}
