package service

import (
	"context"
	"encoding/json"
	"testing"

	"sitetrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReportFixture(t *testing.T) (*ReportService, *fakeSitesRepo, *fakeProductionRepo, *fakeReadingsRepo) {
	t.Helper()
	sites := newFakeSitesRepo()
	require.NoError(t, sites.CreateSite(context.Background(), &domain.Site{
		SiteID:       "SITE-001",
		CustomerName: "Tata Steel",
		Location:     "Chennai",
		RunnerID:     "RUNNER-001",
		ProductionLines: []domain.ProductionLine{
			{
				SiteID:   "SITE-001",
				LineName: "A",
				Sensors: []domain.Sensor{
					{SiteID: "SITE-001", SensorName: "S1", SensorType: domain.SensorSPG},
					{SiteID: "SITE-001", SensorName: "M1", SensorType: domain.SensorMudgun},
				},
			},
			{SiteID: "SITE-001", LineName: "B"},
		},
	}))
	production := &fakeProductionRepo{}
	readings := &fakeReadingsRepo{}
	svc := NewReportService(production, readings, sites, zap.NewNop())
	return svc, sites, production, readings
}

func addDaily(t *testing.T, repo *fakeProductionRepo, line, date string, prod, erosion float64, campaign string, status domain.RepairStatus, tier int) {
	t.Helper()
	require.NoError(t, repo.CreateDaily(context.Background(), &domain.DailyProduction{
		SiteID:          "SITE-001",
		LineName:        line,
		ProductionDate:  date,
		ProductionData:  prod,
		ErosionData:     erosion,
		CampaignNo:      campaign,
		RepairStatus:    status,
		MinorRepairTier: tier,
	}))
}

func TestDailyProductionPivot(t *testing.T) {
	svc, _, production, _ := newReportFixture(t)
	addDaily(t, production, "A", "2026-08-01", 100, 2.5, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "B", "2026-08-01", 50, 1.0, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "A", "2026-08-02", 80, 2.0, "C1", domain.RepairMinor, 1)

	records, err := svc.DailyProductionPivot(context.Background(), "SITE-001", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	date, _ := first.Get("date")
	assert.Equal(t, "2026-08-01", date)
	assert.Equal(t, 150.0, first.Float("totalProd"))
	assert.Equal(t, 100.0, first.Float("A_prod"))
	assert.Equal(t, 2.5, first.Float("A_erosion"))
	assert.Equal(t, 50.0, first.Float("B_prod"))

	second := records[1]
	assert.Equal(t, 80.0, second.Float("totalProd"))
	assert.Equal(t, 80.0, second.Float("A_prod"))
	_, hasB := second.Get("B_prod")
	assert.False(t, hasB)
}

func TestDailyProductionPivotKeyOrder(t *testing.T) {
	svc, _, production, _ := newReportFixture(t)
	addDaily(t, production, "A", "2026-08-01", 100, 2.5, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "B", "2026-08-01", 50, 1.0, "C1", domain.RepairMinor, 1)

	records, err := svc.DailyProductionPivot(context.Background(), "SITE-001", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, []string{"date", "totalProd", "A_prod", "A_erosion", "B_prod", "B_erosion"}, records[0].Keys())

	// insertion order survives marshalling
	data, err := json.Marshal(records[0])
	require.NoError(t, err)
	assert.Equal(t, `{"date":"2026-08-01","totalProd":150,"A_prod":100,"A_erosion":2.5,"B_prod":50,"B_erosion":1}`, string(data))
}

func TestDailyProductionPivotValidation(t *testing.T) {
	svc, _, _, _ := newReportFixture(t)

	_, err := svc.DailyProductionPivot(context.Background(), "SITE-001", "", "2026-08-31")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.DailyProductionPivot(context.Background(), "SITE-001", "08/01/2026", "2026-08-31")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestShiftSensorPivotRemapsSPGToOFF(t *testing.T) {
	svc, _, _, readings := newReportFixture(t)
	require.NoError(t, readings.Create(context.Background(), &domain.SensorReading{
		SiteID: "SITE-001", LineName: "A", ReadingDate: "2026-08-01",
		ShiftCode: "A", SensorName: "S1", Reading: 12,
	}))
	require.NoError(t, readings.Create(context.Background(), &domain.SensorReading{
		SiteID: "SITE-001", LineName: "A", ReadingDate: "2026-08-01",
		ShiftCode: "A", SensorName: "M1", Reading: 7,
	}))
	require.NoError(t, readings.Create(context.Background(), &domain.SensorReading{
		SiteID: "SITE-001", LineName: "A", ReadingDate: "2026-08-01",
		ShiftCode: "B", SensorName: "S1", Reading: 9,
	}))

	records, err := svc.ShiftSensorPivot(context.Background(), "SITE-001", "A", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	shift, _ := first.Get("shift_code")
	assert.Equal(t, "A", shift)
	assert.Equal(t, 7.0, first.Float("M1_MUDGUN"))
	assert.Equal(t, 12.0, first.Float("S1_OFF"))
	_, hasRaw := first.Get("S1_SPG")
	assert.False(t, hasRaw)

	assert.Equal(t, 9.0, records[1].Float("S1_OFF"))
}

func TestShiftSensorPivotUnknownSensorColumn(t *testing.T) {
	svc, _, _, readings := newReportFixture(t)
	require.NoError(t, readings.Create(context.Background(), &domain.SensorReading{
		SiteID: "SITE-001", LineName: "A", ReadingDate: "2026-08-01",
		ShiftCode: "A", SensorName: "GHOST", Reading: 1,
	}))

	records, err := svc.ShiftSensorPivot(context.Background(), "SITE-001", "A", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1.0, records[0].Float("GHOST_UNKNOWN"))
}

func TestCampaignsBySite(t *testing.T) {
	svc, _, production, _ := newReportFixture(t)
	addDaily(t, production, "A", "2026-08-01", 10, 0, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "A", "2026-08-02", 10, 0, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "A", "2026-08-03", 10, 0, "C2", domain.RepairMajor, 0)

	refs, err := svc.CampaignsBySite(context.Background(), "SITE-001", "A")
	require.NoError(t, err)
	assert.Equal(t, []CampaignRef{{Campaign: "C1"}, {Campaign: "C2"}}, refs)
}

func TestCampaignwiseProductionCumulativeNeverResets(t *testing.T) {
	svc, _, production, _ := newReportFixture(t)
	addDaily(t, production, "A", "2026-08-01", 10, 0, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "A", "2026-08-02", 15, 0, "C1", domain.RepairMinor, 2)
	addDaily(t, production, "A", "2026-08-03", 7, 0, "C1", domain.RepairMinor, 2)

	points, err := svc.CampaignwiseProduction(context.Background(), "SITE-001", "A", "C1")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 10.0, points[0].CumulativeProd)
	assert.Equal(t, 25.0, points[1].CumulativeProd)
	assert.Equal(t, 32.0, points[2].CumulativeProd)
	assert.Equal(t, "C1", points[0].Campaign)
}

func TestLifeAfterRepairResetsOnTierChange(t *testing.T) {
	svc, _, production, _ := newReportFixture(t)
	addDaily(t, production, "A", "2026-08-01", 10, 0, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "A", "2026-08-02", 15, 0, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "A", "2026-08-03", 7, 0, "C1", domain.RepairMinor, 2)

	points, err := svc.LifeAfterRepairProduction(context.Background(), "SITE-001", "A", "C1")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 10.0, points[0].CumulativeProd)
	assert.Equal(t, 25.0, points[1].CumulativeProd)
	// tier moved 1 -> 2, cumulative restarts with the new row's production
	assert.Equal(t, 7.0, points[2].CumulativeProd)
	assert.Equal(t, 2, points[2].MinorRepairTier)
}

func TestLifeAfterRepairNonMinorRowClearsBaseline(t *testing.T) {
	svc, _, production, _ := newReportFixture(t)
	addDaily(t, production, "A", "2026-08-01", 10, 0, "C1", domain.RepairMinor, 1)
	addDaily(t, production, "A", "2026-08-02", 20, 0, "C1", domain.RepairMajor, 0)
	// first minor after a non-minor row: no reset, whatever the tier
	addDaily(t, production, "A", "2026-08-03", 5, 0, "C1", domain.RepairMinor, 2)
	addDaily(t, production, "A", "2026-08-04", 4, 0, "C1", domain.RepairMinor, 3)

	points, err := svc.LifeAfterRepairProduction(context.Background(), "SITE-001", "A", "C1")
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, 10.0, points[0].CumulativeProd)
	assert.Equal(t, 30.0, points[1].CumulativeProd)
	assert.Equal(t, 35.0, points[2].CumulativeProd)
	// tier moved 2 -> 3 between tracked minor rows: reset applies again
	assert.Equal(t, 4.0, points[3].CumulativeProd)
}

func TestLifeAfterRepairJSONFieldNames(t *testing.T) {
	svc, _, production, _ := newReportFixture(t)
	addDaily(t, production, "A", "2026-08-01", 10, 0, "C1", domain.RepairMinor, 1)

	points, err := svc.LifeAfterRepairProduction(context.Background(), "SITE-001", "A", "C1")
	require.NoError(t, err)

	data, err := json.Marshal(points[0])
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"date", "production", "cumulativeprod", "campaign", "repair_status", "minor_repair_status"} {
		assert.Contains(t, m, key)
	}
}
