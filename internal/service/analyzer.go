package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lead-pruner/internal/errors"
	"github.com/lead-pruner/internal/models"
)

// LeadAnalysis is the reply breakdown of one campaign export.
type LeadAnalysis struct {
	TotalLeads    int
	RepliedLeads  int
	NonResponding [][]string
}

// NonRespondingCount returns the number of leads without a single reply.
func (a *LeadAnalysis) NonRespondingCount() int {
	return len(a.NonResponding)
}

// AnalyzeLeads splits an export into replied and non-responding leads based
// on the reply_count column. An export without that column is malformed and
// yields a data integrity error; the caller decides whether the campaign is
// dropped or the run stops. A blank or unparsable value in a row counts as
// zero replies.
func AnalyzeLeads(export *models.LeadExport) (*LeadAnalysis, error) {
	replyIdx := export.ColumnIndex("reply_count")
	if replyIdx < 0 {
		return nil, errors.NewDataIntegrityError(
			fmt.Sprintf("campaign %d export", export.CampaignID),
			"missing reply_count column",
		)
	}

	analysis := &LeadAnalysis{TotalLeads: export.LeadCount()}
	for _, row := range export.Rows {
		if replyCount(row, replyIdx) == 0 {
			analysis.NonResponding = append(analysis.NonResponding, row)
		} else {
			analysis.RepliedLeads++
		}
	}
	return analysis, nil
}

func replyCount(row []string, idx int) int {
	if idx >= len(row) {
		return 0
	}
	value := strings.TrimSpace(row[idx])
	if value == "" {
		return 0
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return count
}
