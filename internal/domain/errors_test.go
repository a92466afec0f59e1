package domain

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrors(t *testing.T) {
	Convey("Given the error taxonomy", t, func() {
		Convey("ConfigError", func() {
			inner := errors.New("no such file")
			err := &ConfigError{Path: "/etc/mysql-backup/config.json", Err: inner}

			Convey("It should render path and cause", func() {
				So(err.Error(), ShouldContainSubstring, "/etc/mysql-backup/config.json")
				So(err.Error(), ShouldContainSubstring, "no such file")
			})

			Convey("It should unwrap to the cause", func() {
				So(errors.Is(err, inner), ShouldBeTrue)
			})

			Convey("IsConfigError should detect it, wrapped or not", func() {
				So(IsConfigError(err), ShouldBeTrue)
				So(IsConfigError(fmt.Errorf("load config: %w", err)), ShouldBeTrue)
				So(IsConfigError(errors.New("other")), ShouldBeFalse)
				So(IsConfigError(nil), ShouldBeFalse)
			})

			Convey("It should render without a path too", func() {
				So((&ConfigError{Err: inner}).Error(), ShouldEqual, "config error: no such file")
			})
		})

		Convey("ConnectionError", func() {
			inner := errors.New("connection refused")
			err := &ConnectionError{Profile: "orders", Err: inner}

			So(err.Error(), ShouldContainSubstring, "orders")
			So(errors.Is(err, inner), ShouldBeTrue)
		})

		Convey("DumpError", func() {
			Convey("A timeout should be detectable through the wrapper", func() {
				err := &DumpError{Profile: "orders", Err: ErrDumpTimeout}

				So(errors.Is(err, ErrDumpTimeout), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "dump timed out")
			})

			Convey("Process output should appear in the message when present", func() {
				err := &DumpError{Profile: "orders", Output: "Access denied for user", Err: errors.New("exit status 2")}

				So(err.Error(), ShouldContainSubstring, "Access denied")
				So(err.Error(), ShouldContainSubstring, "exit status 2")
			})

			Convey("A plain failure should not look like a timeout", func() {
				err := &DumpError{Profile: "orders", Err: errors.New("exit status 2")}
				So(errors.Is(err, ErrDumpTimeout), ShouldBeFalse)
			})
		})

		Convey("RetentionError", func() {
			inner := errors.New("permission denied")
			err := &RetentionError{Path: "orders_20250101_030000.sql.gz", Err: inner}

			So(err.Error(), ShouldContainSubstring, "orders_20250101_030000.sql.gz")
			So(errors.Is(err, inner), ShouldBeTrue)
		})

		Convey("DispatchError", func() {
			inner := errors.New("status 500")
			err := &DispatchError{Channel: "webhook", Err: inner}

			So(err.Error(), ShouldContainSubstring, "webhook")
			So(errors.Is(err, inner), ShouldBeTrue)
		})
	})
}
