package dashboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"hisdash/internal/analytics"
	"hisdash/internal/logger"
	"hisdash/internal/models"
	"hisdash/internal/normalizer"
	"hisdash/internal/source"
)

const header = "MA_LK,MA_BN,THANH_TIEN,TEN_KHOA,NGAY_TTOAN,MA_LOAI_KCB,TEN_NHOM,TEN_DICH_VU,MA_BENH\n"

const exportCSV = header +
	"V1,P1,100,Nội,20240305,2,Thuốc,Paracetamol,J18\n" +
	"V1,P1,50,Nội,20240305,3,Giường bệnh,Giường nội khoa,J18\n" +
	"V2,P2,30,Ngoại,20240306,1,Xét nghiệm,Công thức máu,K35\n"

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	log := logger.NewLoggerWithWriter("debug", "json", &buf)
	clock := func() time.Time { return time.Date(2024, 3, 31, 12, 0, 0, 0, time.Local) }

	return NewSessionWithProcessor(source.NewClient(), normalizer.NewProcessorWithClock(clock), analytics.DefaultOptions(), log), &buf
}

func TestSession_EmptyBeforeLoad(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.Current(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Current error = %v, want ErrNoDataset", err)
	}

	if _, err := s.Snapshot(models.FilterState{}); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Snapshot error = %v, want ErrNoDataset", err)
	}

	if _, err := s.Report(models.FilterState{}); !errors.Is(err, ErrNoDataset) {
		t.Errorf("Report error = %v, want ErrNoDataset", err)
	}

	if _, err := s.FilterOptions(); !errors.Is(err, ErrNoDataset) {
		t.Errorf("FilterOptions error = %v, want ErrNoDataset", err)
	}
}

func TestSession_LoadBytes(t *testing.T) {
	s, buf := newTestSession(t)

	ds, err := s.LoadBytes("export.csv", []byte(exportCSV))
	if err != nil {
		t.Fatalf("LoadBytes returned unexpected error: %v", err)
	}

	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}

	if ds.Meta.Source != "export.csv" || ds.Meta.Kind != source.KindUpload || ds.Meta.Rows != 3 {
		t.Errorf("unexpected metadata: %+v", ds.Meta)
	}

	if err := ds.Meta.Verify([]byte(exportCSV)); err != nil {
		t.Errorf("checksum does not match payload: %v", err)
	}

	if got := ds.Options.Departments; len(got) != 2 || got[0] != "Ngoại" || got[1] != "Nội" {
		t.Errorf("Departments = %v", got)
	}

	if !strings.Contains(buf.String(), `"message":"dataset loaded"`) {
		t.Errorf("expected load to be logged, got %s", buf.String())
	}

	snap, err := s.Snapshot(models.FilterState{})
	if err != nil {
		t.Fatalf("Snapshot returned unexpected error: %v", err)
	}

	if snap.RowCount != 3 || snap.KPIs.TotalVisits != 2 || snap.KPIs.TotalCost != 180 {
		t.Errorf("unexpected snapshot: rows=%d visits=%d cost=%v", snap.RowCount, snap.KPIs.TotalVisits, snap.KPIs.TotalCost)
	}

	if snap.KPIs.InpatientCount != 1 || snap.KPIs.InpatientRevenue != 150 {
		t.Errorf("V1 should resolve to inpatient with 150, got count=%d revenue=%v", snap.KPIs.InpatientCount, snap.KPIs.InpatientRevenue)
	}
}

func TestSession_RejectedLoadKeepsPrevious(t *testing.T) {
	s, _ := newTestSession(t)

	first, err := s.LoadBytes("good.csv", []byte(exportCSV))
	if err != nil {
		t.Fatalf("LoadBytes returned unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "missing columns", content: "MA_LK,MA_BN\nV1,P1\n", want: normalizer.ErrMissingColumns},
		{name: "header only", content: header, want: normalizer.ErrNoRows},
		{name: "empty", content: "", want: source.ErrEmptyPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.LoadBytes("bad.csv", []byte(tt.content))
			if !errors.Is(err, tt.want) {
				t.Fatalf("LoadBytes error = %v, want %v", err, tt.want)
			}

			current, err := s.Current()
			if err != nil || current != first {
				t.Errorf("rejected load replaced the dataset")
			}
		})
	}
}

func TestSession_Load(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.Load(context.Background(), source.Spec{Name: "nothing"}); !errors.Is(err, source.ErrEmptySpec) {
		t.Errorf("Load error = %v, want ErrEmptySpec", err)
	}

	if _, err := s.Load(context.Background(), source.Spec{Query: "SELECT 1"}); !errors.Is(err, source.ErrNoDatabase) {
		t.Errorf("Load error = %v, want ErrNoDatabase", err)
	}
}

func TestSession_FilteredSnapshot(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.LoadBytes("export.csv", []byte(exportCSV)); err != nil {
		t.Fatalf("LoadBytes returned unexpected error: %v", err)
	}

	snap, err := s.Snapshot(models.FilterState{Department: "Ngoại"})
	if err != nil {
		t.Fatalf("Snapshot returned unexpected error: %v", err)
	}

	if snap.RowCount != 1 || snap.KPIs.TotalCost != 30 || snap.Filters.Department != "Ngoại" {
		t.Errorf("unexpected filtered snapshot: %+v", snap.KPIs)
	}

	ds, _ := s.Current()
	if len(ds.Records) != 3 {
		t.Errorf("filtering must not shrink the dataset")
	}
}

func TestSession_ExportCSV(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.LoadBytes("export.csv", []byte(exportCSV)); err != nil {
		t.Fatalf("LoadBytes returned unexpected error: %v", err)
	}

	got, err := s.ExportCSV(models.FilterState{}, models.RollupDepartments)
	if err != nil {
		t.Fatalf("ExportCSV returned unexpected error: %v", err)
	}

	want := "name,cost,visits\n\"Nội\",\"150\",\"1\"\n\"Ngoại\",\"30\",\"1\""
	if got != want {
		t.Errorf("ExportCSV =\n%s\nwant\n%s", got, want)
	}

	if _, err := s.ExportCSV(models.FilterState{}, "nope"); !errors.Is(err, ErrUnknownRollup) {
		t.Errorf("ExportCSV error = %v, want ErrUnknownRollup", err)
	}
}

func TestSession_Report(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.LoadBytes("export.csv", []byte(exportCSV)); err != nil {
		t.Fatalf("LoadBytes returned unexpected error: %v", err)
	}

	got, err := s.Report(models.FilterState{})
	if err != nil {
		t.Fatalf("Report returned unexpected error: %v", err)
	}

	for _, want := range []string{"HIS BILLING REPORT", "Source:  export.csv", "Not enough data"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestSession_ConcurrentReadsDuringLoad(t *testing.T) {
	s, _ := newTestSession(t)

	if _, err := s.LoadBytes("export.csv", []byte(exportCSV)); err != nil {
		t.Fatalf("LoadBytes returned unexpected error: %v", err)
	}

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			snap, err := s.Snapshot(models.FilterState{})
			if err != nil || snap.KPIs.TotalCost != 180 {
				t.Errorf("snapshot saw a partial dataset: cost=%v err=%v", snap.KPIs.TotalCost, err)
			}
		}()

		go func() {
			defer wg.Done()

			if _, err := s.LoadBytes("export.csv", []byte(exportCSV)); err != nil {
				t.Errorf("LoadBytes returned unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()
}

func TestCompute(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local) }

	table, err := source.ParseCSV(exportCSV)
	if err != nil {
		t.Fatalf("ParseCSV returned unexpected error: %v", err)
	}

	records, err := normalizer.NewProcessorWithClock(clock).Process(table)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	snap := Compute(records, models.FilterState{}, analytics.DefaultOptions())

	var structure float64
	for _, it := range snap.Rollups.RevenueStructure {
		structure += it.Value
	}

	categories := snap.KPIs.MedicineRevenue + snap.KPIs.ImagingRevenue + snap.KPIs.LabRevenue +
		snap.KPIs.BedRevenue + snap.KPIs.OtherCategoryRevenue

	if structure != categories || structure != snap.KPIs.TotalCost {
		t.Errorf("revenue structure %v, category sums %v, total %v", structure, categories, snap.KPIs.TotalCost)
	}

	if len(snap.Alerts) != 1 || snap.Alerts[0].Severity != models.SeverityInfo {
		t.Errorf("single-month data should give one info alert, got %+v", snap.Alerts)
	}
}

func TestSession_ReloadUnchangedKeepsDataset(t *testing.T) {
	s, buf := newTestSession(t)

	first, err := s.LoadBytes("export.csv", []byte(exportCSV))
	if err != nil {
		t.Fatalf("LoadBytes returned unexpected error: %v", err)
	}

	again, err := s.LoadBytes("export.csv", []byte(exportCSV))
	if err != nil {
		t.Fatalf("LoadBytes returned unexpected error: %v", err)
	}

	if again != first {
		t.Error("identical payload from the same source should keep the current dataset")
	}

	if !strings.Contains(buf.String(), `"message":"dataset unchanged"`) {
		t.Errorf("expected unchanged reload to be logged, got %s", buf.String())
	}

	tests := []struct {
		name    string
		source  string
		content string
	}{
		{name: "changed content", source: "export.csv", content: exportCSV + "V3,P3,10,Nội,20240307,1,Thuốc,Vitamin C,J18\n"},
		{name: "other source", source: "copy.csv", content: exportCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := s.Current()

			ds, err := s.LoadBytes(tt.source, []byte(tt.content))
			if err != nil {
				t.Fatalf("LoadBytes returned unexpected error: %v", err)
			}

			if ds == before || ds.Meta.LoadID == before.Meta.LoadID {
				t.Error("expected a new dataset")
			}
		})
	}
}
