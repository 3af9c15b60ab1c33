package service

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/lead-pruner/internal/models"
)

// CampaignSelector picks campaigns for deletion until the target lead
// volume is reached.
type CampaignSelector struct {
	target int
	logger logrus.FieldLogger
}

// NewCampaignSelector creates a selector for the given target volume.
func NewCampaignSelector(target int, logger logrus.FieldLogger) *CampaignSelector {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CampaignSelector{target: target, logger: logger}
}

// SelectCampaigns walks the eligible campaigns in descending order of their
// non-responding lead count and accumulates them until the planned total
// reaches the target. Selection stops at the first prefix whose sum meets
// the target; campaigns with nothing to contribute are skipped. When even
// the full set falls short of the target, everything with leads is selected
// and the shortfall is logged.
func (s *CampaignSelector) SelectCampaigns(eligible []models.CampaignReport) (selected []models.CampaignReport, planned int) {
	ranked := make([]models.CampaignReport, len(eligible))
	copy(ranked, eligible)
	// Stable sort keeps the fetch order for campaigns with equal counts.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NonRespondingLeads > ranked[j].NonRespondingLeads
	})

	for _, report := range ranked {
		if report.NonRespondingLeads <= 0 {
			continue
		}
		if planned >= s.target {
			break
		}
		selected = append(selected, report)
		planned += report.NonRespondingLeads
	}

	if planned < s.target {
		s.logger.Warnf("[Selector] Only %d leads available across all eligible campaigns, target is %d", planned, s.target)
	}
	s.logger.Infof("[Selector] Selected %d of %d campaigns, %d leads planned (target %d)",
		len(selected), len(eligible), planned, s.target)
	return selected, planned
}
