package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"mysql-backup-service/internal/domain"
	"mysql-backup-service/internal/profile"
)

func validEntry(name string) profile.Entry {
	return profile.Entry{
		Profile: domain.Profile{
			Name:     name,
			Host:     "db1.internal",
			Port:     3306,
			User:     "backup",
			Database: name,
		},
		Source: name + ".env",
	}
}

func TestCoordinator(t *testing.T) {
	Convey("Given a Coordinator", t, func() {
		tempDir, err := os.MkdirTemp("", "coordinator_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		ctx := context.Background()
		reportPath := filepath.Join(tempDir, "last_run.json")

		newCoordinator := func(entries []profile.Entry, dumper *fakeDumper, concurrency int, targets ...UploadTarget) *Coordinator {
			cleanup := NewCleanup(newMemStore(nil), nil, 3, nopLogger{})
			return NewCoordinator(CoordinatorOptions{
				Profiles:      staticProfiles{entries: entries},
				Dumper:        dumper,
				DestDir:       tempDir,
				UploadTargets: targets,
				Cleanup:       cleanup,
				Reports:       NewReportStore(reportPath),
				Logger:        nopLogger{},
				Concurrency:   concurrency,
			})
		}

		Convey("When every profile succeeds", func() {
			entries := []profile.Entry{validEntry("alpha"), validEntry("beta")}
			dumper := &fakeDumper{}

			report, err := newCoordinator(entries, dumper, 1).Run(ctx)

			Convey("The report should cover every profile in order", func() {
				So(err, ShouldBeNil)
				So(report.Outcome, ShouldEqual, domain.OutcomeSuccess)
				So(len(report.Results), ShouldEqual, 2)
				So(report.Results[0].Profile, ShouldEqual, "alpha")
				So(report.Results[1].Profile, ShouldEqual, "beta")
				So(report.Results[0].Artifact, ShouldNotBeNil)
				So(report.Retention, ShouldNotBeNil)
			})

			Convey("The report should be persisted", func() {
				So(err, ShouldBeNil)
				loaded, err := NewReportStore(reportPath).Load()
				So(err, ShouldBeNil)
				So(loaded, ShouldNotBeNil)
				So(len(loaded.Results), ShouldEqual, 2)
				So(loaded.Outcome, ShouldEqual, domain.OutcomeSuccess)
			})
		})

		Convey("When one profile fails to dump", func() {
			entries := []profile.Entry{validEntry("alpha"), validEntry("beta"), validEntry("gamma")}
			dumper := &fakeDumper{dumpErr: map[string]error{
				"beta": &domain.DumpError{Profile: "beta", Err: errors.New("exit status 2")},
			}}

			report, err := newCoordinator(entries, dumper, 1).Run(ctx)

			Convey("The other profiles should still be backed up", func() {
				So(err, ShouldBeNil)
				So(report.Outcome, ShouldEqual, domain.OutcomeFailure)
				So(report.Succeeded(), ShouldEqual, 2)
				So(report.Failed(), ShouldEqual, 1)
				So(report.Results[1].Outcome, ShouldEqual, domain.OutcomeFailure)
				So(report.Results[1].Error, ShouldContainSubstring, "exit status 2")
				So(dumper.attempts, ShouldContain, "gamma")
			})
		})

		Convey("When a profile fails its connectivity check", func() {
			entries := []profile.Entry{validEntry("alpha")}
			dumper := &fakeDumper{pingErr: map[string]error{
				"alpha": &domain.ConnectionError{Profile: "alpha", Err: errors.New("connection refused")},
			}}

			report, err := newCoordinator(entries, dumper, 1).Run(ctx)

			Convey("No dump should be attempted for it", func() {
				So(err, ShouldBeNil)
				So(report.Results[0].Outcome, ShouldEqual, domain.OutcomeFailure)
				So(report.Results[0].Error, ShouldContainSubstring, "connection refused")
				So(dumper.attempts, ShouldBeEmpty)
			})
		})

		Convey("When a profile file was malformed", func() {
			entries := []profile.Entry{
				validEntry("alpha"),
				{Source: "broken.env", Err: errors.New("DB_USER is required")},
			}
			dumper := &fakeDumper{}

			report, err := newCoordinator(entries, dumper, 1).Run(ctx)

			Convey("It should become a skipped result, not abort the run", func() {
				So(err, ShouldBeNil)
				So(len(report.Results), ShouldEqual, 2)
				So(report.Results[1].Profile, ShouldEqual, "broken")
				So(report.Results[1].Outcome, ShouldEqual, domain.OutcomeSkipped)
				So(report.Results[1].Error, ShouldContainSubstring, "DB_USER")
				So(report.Outcome, ShouldEqual, domain.OutcomeFailure)
				So(dumper.attempts, ShouldResemble, []string{"alpha"})
			})
		})

		Convey("When no profiles are configured", func() {
			report, err := newCoordinator(nil, &fakeDumper{}, 1).Run(ctx)

			Convey("The run should succeed with an empty report", func() {
				So(err, ShouldBeNil)
				So(report.Outcome, ShouldEqual, domain.OutcomeSuccess)
				So(report.Results, ShouldBeEmpty)
				So(report.Retention, ShouldNotBeNil)
			})
		})

		Convey("When the profile directory cannot be read", func() {
			coordinator := NewCoordinator(CoordinatorOptions{
				Profiles: staticProfiles{err: &domain.ConfigError{Path: "/opt/env", Err: errors.New("permission denied")}},
				Dumper:   &fakeDumper{},
				Cleanup:  NewCleanup(newMemStore(nil), nil, 3, nopLogger{}),
				Reports:  NewReportStore(reportPath),
				Logger:   nopLogger{},
			})

			report, err := coordinator.Run(ctx)

			Convey("The run should abort with a ConfigError", func() {
				So(report, ShouldBeNil)
				So(domain.IsConfigError(err), ShouldBeTrue)
			})
		})

		Convey("When concurrency is limited to 1", func() {
			entries := []profile.Entry{validEntry("alpha"), validEntry("beta"), validEntry("gamma")}
			dumper := &fakeDumper{}

			report, err := newCoordinator(entries, dumper, 1).Run(ctx)

			Convey("Dumps should never overlap", func() {
				So(err, ShouldBeNil)
				So(report.Succeeded(), ShouldEqual, 3)
				So(dumper.peak, ShouldEqual, 1)
			})
		})

		Convey("When concurrency allows parallel dumps", func() {
			entries := []profile.Entry{validEntry("alpha"), validEntry("beta"), validEntry("gamma"), validEntry("delta")}
			dumper := &fakeDumper{}

			report, err := newCoordinator(entries, dumper, 4).Run(ctx)

			Convey("Results should still land in profile order", func() {
				So(err, ShouldBeNil)
				So(len(report.Results), ShouldEqual, 4)
				So(report.Results[0].Profile, ShouldEqual, "alpha")
				So(report.Results[1].Profile, ShouldEqual, "beta")
				So(report.Results[2].Profile, ShouldEqual, "gamma")
				So(report.Results[3].Profile, ShouldEqual, "delta")
			})
		})

		Convey("When upload targets are configured", func() {
			entries := []profile.Entry{validEntry("alpha")}
			dumper := &fakeDumper{}
			remote := &fakeRemote{}

			report, err := newCoordinator(entries, dumper, 1, UploadTarget{Name: "s3", Storage: remote}).Run(ctx)

			Convey("Successful artifacts should be replicated", func() {
				So(err, ShouldBeNil)
				So(remote.uploads, ShouldResemble, []string{"alpha_20250601_030000.sql.gz"})
				So(len(report.Results[0].Uploads), ShouldEqual, 1)
				So(report.Results[0].Uploads[0].Target, ShouldEqual, "s3")
				So(report.Results[0].Uploads[0].Error, ShouldBeEmpty)
			})
		})

		Convey("When replication fails", func() {
			entries := []profile.Entry{validEntry("alpha")}
			dumper := &fakeDumper{}
			remote := &fakeRemote{uploadErr: errors.New("bucket gone")}

			report, err := newCoordinator(entries, dumper, 1, UploadTarget{Name: "s3", Storage: remote}).Run(ctx)

			Convey("The backup itself should still count as a success", func() {
				So(err, ShouldBeNil)
				So(report.Outcome, ShouldEqual, domain.OutcomeSuccess)
				So(report.Results[0].Uploads[0].Error, ShouldContainSubstring, "bucket gone")
			})
		})

		Convey("When a dispatcher is wired", func() {
			entries := []profile.Entry{validEntry("alpha")}
			dumper := &fakeDumper{}
			channel := &fakeNotifier{name: "webhook"}

			cleanup := NewCleanup(newMemStore(nil), nil, 3, nopLogger{})
			coordinator := NewCoordinator(CoordinatorOptions{
				Profiles:    staticProfiles{entries: entries},
				Dumper:      dumper,
				DestDir:     tempDir,
				Cleanup:     cleanup,
				Dispatcher:  NewDispatcher([]domain.Notifier{channel}, nopLogger{}, time.Second),
				Reports:     NewReportStore(reportPath),
				Logger:      nopLogger{},
				Concurrency: 1,
			})

			_, err := coordinator.Run(ctx)

			Convey("The summary should be delivered after the run", func() {
				So(err, ShouldBeNil)
				So(len(channel.subjects), ShouldEqual, 1)
				So(channel.subjects[0], ShouldContainSubstring, "1/1 succeeded")
			})
		})
	})
}
