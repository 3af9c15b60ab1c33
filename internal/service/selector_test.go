package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lead-pruner/internal/models"
)

func selectorReport(id int64, nonResponding int) models.CampaignReport {
	return models.CampaignReport{
		CampaignID:         id,
		CampaignName:       fmt.Sprintf("Campaign %d", id),
		NonRespondingLeads: nonResponding,
		Included:           true,
	}
}

func TestSelectCampaignsStopsAtTarget(t *testing.T) {
	selector := NewCampaignSelector(70, nil)
	eligible := []models.CampaignReport{
		selectorReport(1, 20),
		selectorReport(2, 50),
		selectorReport(3, 5),
		selectorReport(4, 30),
	}

	selected, planned := selector.SelectCampaigns(eligible)

	require.Len(t, selected, 2)
	assert.Equal(t, int64(2), selected[0].CampaignID)
	assert.Equal(t, int64(4), selected[1].CampaignID)
	assert.Equal(t, 80, planned)
}

func TestSelectCampaignsExactTarget(t *testing.T) {
	selector := NewCampaignSelector(70, nil)
	eligible := []models.CampaignReport{
		selectorReport(1, 40),
		selectorReport(2, 30),
		selectorReport(3, 10),
	}

	selected, planned := selector.SelectCampaigns(eligible)

	require.Len(t, selected, 2)
	assert.Equal(t, 70, planned)
}

func TestSelectCampaignsSkipsEmptyCampaigns(t *testing.T) {
	selector := NewCampaignSelector(100, nil)
	eligible := []models.CampaignReport{
		selectorReport(1, 0),
		selectorReport(2, 25),
		selectorReport(3, 0),
	}

	selected, planned := selector.SelectCampaigns(eligible)

	require.Len(t, selected, 1)
	assert.Equal(t, int64(2), selected[0].CampaignID)
	assert.Equal(t, 25, planned)
}

func TestSelectCampaignsShortfallTakesEverything(t *testing.T) {
	selector := NewCampaignSelector(1000, nil)
	eligible := []models.CampaignReport{
		selectorReport(1, 50),
		selectorReport(2, 30),
	}

	selected, planned := selector.SelectCampaigns(eligible)

	assert.Len(t, selected, 2)
	assert.Equal(t, 80, planned)
}

func TestSelectCampaignsEmptyInput(t *testing.T) {
	selector := NewCampaignSelector(70, nil)

	selected, planned := selector.SelectCampaigns(nil)

	assert.Empty(t, selected)
	assert.Equal(t, 0, planned)
}

func TestSelectCampaignsTiesKeepInputOrder(t *testing.T) {
	selector := NewCampaignSelector(60, nil)
	eligible := []models.CampaignReport{
		selectorReport(1, 30),
		selectorReport(2, 30),
		selectorReport(3, 30),
	}

	selected, _ := selector.SelectCampaigns(eligible)

	require.Len(t, selected, 2)
	assert.Equal(t, int64(1), selected[0].CampaignID)
	assert.Equal(t, int64(2), selected[1].CampaignID)
}

func TestSelectCampaignsDoesNotReorderInput(t *testing.T) {
	selector := NewCampaignSelector(70, nil)
	eligible := []models.CampaignReport{
		selectorReport(1, 5),
		selectorReport(2, 50),
		selectorReport(3, 30),
	}

	selector.SelectCampaigns(eligible)

	assert.Equal(t, int64(1), eligible[0].CampaignID)
	assert.Equal(t, int64(2), eligible[1].CampaignID)
	assert.Equal(t, int64(3), eligible[2].CampaignID)
}
