package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"mysql-backup-service/internal/domain"
)

func TestStatus(t *testing.T) {
	Convey("Given a Status collector with a 3 day retention", t, func() {
		tempDir, err := os.MkdirTemp("", "status_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		ctx := context.Background()
		now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)
		reports := NewReportStore(filepath.Join(tempDir, "last_run.json"))

		newStatus := func(store *memStore) *Status {
			s := NewStatus(reports, store, 3)
			s.now = func() time.Time { return now }
			return s
		}

		Convey("When nothing has ever run", func() {
			report, err := newStatus(newMemStore(nil)).Collect(ctx)

			Convey("It should report an empty but compliant state", func() {
				So(err, ShouldBeNil)
				So(report.LastRun, ShouldBeNil)
				So(report.Artifacts.TotalBackups, ShouldEqual, 0)
				So(report.Artifacts.OldestBackup, ShouldBeNil)
				So(report.Retention.PolicyCompliant, ShouldBeTrue)
				So(report.Retention.RetentionDays, ShouldEqual, 3)
			})
		})

		Convey("When a run report has been persisted", func() {
			So(reports.Save(sampleReport()), ShouldBeNil)

			report, err := newStatus(newMemStore(nil)).Collect(ctx)

			Convey("It should surface the last run", func() {
				So(err, ShouldBeNil)
				So(report.LastRun, ShouldNotBeNil)
				So(report.LastRun.Outcome, ShouldEqual, domain.OutcomeFailure)
				So(len(report.LastRun.Results), ShouldEqual, 3)
			})
		})

		Convey("When artifacts span several days", func() {
			files := map[string]int64{}
			files[artifactName("orders", now.Add(-time.Hour))] = 100   // today
			files[artifactName("orders", now.AddDate(0, 0, -1))] = 200 // yesterday
			files[artifactName("users", now.AddDate(0, 0, -2))] = 300  // this week
			files[artifactName("users", now.AddDate(0, 0, -9))] = 400  // older, violates retention
			files[artifactName("legacy", now.AddDate(0, 0, -3))] = 500 // exactly at horizon, compliant
			files["last_run.json"] = 50                                // no timestamp, ignored
			store := newMemStore(files)

			report, err := newStatus(store).Collect(ctx)

			Convey("It should total and bucket them by age", func() {
				So(err, ShouldBeNil)
				So(report.Artifacts.TotalBackups, ShouldEqual, 5)
				So(report.Artifacts.TotalSize, ShouldEqual, 1500)
				So(report.Artifacts.ByAge.Today, ShouldEqual, 1)
				So(report.Artifacts.ByAge.Yesterday, ShouldEqual, 1)
				So(report.Artifacts.ByAge.ThisWeek, ShouldEqual, 2)
				So(report.Artifacts.ByAge.Older, ShouldEqual, 1)
			})

			Convey("It should track the oldest and newest artifact", func() {
				So(err, ShouldBeNil)
				So(report.Artifacts.OldestBackup, ShouldNotBeNil)
				So(report.Artifacts.NewestBackup, ShouldNotBeNil)
				So(report.Artifacts.OldestBackup.Equal(now.AddDate(0, 0, -9)), ShouldBeTrue)
				So(report.Artifacts.NewestBackup.Equal(now.Add(-time.Hour)), ShouldBeTrue)
			})

			Convey("It should flag only the file past the horizon", func() {
				So(err, ShouldBeNil)
				So(report.Retention.PolicyCompliant, ShouldBeFalse)
				So(len(report.Retention.Violations), ShouldEqual, 1)
				So(report.Retention.Violations[0].Filename, ShouldEqual, artifactName("users", now.AddDate(0, 0, -9)))
				So(report.Retention.Violations[0].AgeDays, ShouldEqual, 9)
			})
		})

		Convey("When every artifact is within the window", func() {
			store := newMemStore(map[string]int64{
				artifactName("orders", now.AddDate(0, 0, -1)): 100,
				artifactName("orders", now.AddDate(0, 0, -2)): 200,
			})

			report, err := newStatus(store).Collect(ctx)

			Convey("The retention check should be compliant", func() {
				So(err, ShouldBeNil)
				So(report.Retention.PolicyCompliant, ShouldBeTrue)
				So(report.Retention.Violations, ShouldBeEmpty)
			})
		})
	})
}
