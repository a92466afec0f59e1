package usecase

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractTimestamp(t *testing.T) {
	Convey("Given artifact filenames", t, func() {
		Convey("A standard artifact name should parse", func() {
			ts, err := extractTimestamp("orders_20250610_030105.sql.gz")

			So(err, ShouldBeNil)
			So(ts.Equal(time.Date(2025, 6, 10, 3, 1, 5, 0, time.Local)), ShouldBeTrue)
		})

		Convey("A derived name with extra underscores should parse", func() {
			ts, err := extractTimestamp("db01_db1.internal_shop_20250610_030000.sql.gz")

			So(err, ShouldBeNil)
			So(ts.Year(), ShouldEqual, 2025)
		})

		Convey("Names without a timestamp should be rejected", func() {
			for _, name := range []string{"last_run.json", "notes.txt", "orders.sql.gz", ""} {
				_, err := extractTimestamp(name)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("A malformed timestamp should be rejected", func() {
			_, err := extractTimestamp("orders_20251399_996100.sql.gz")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFormatBytes(t *testing.T) {
	Convey("Given sizes in bytes", t, func() {
		cases := map[int64]string{
			0:          "0 B",
			512:        "512 B",
			1024:       "1.0 KiB",
			2048:       "2.0 KiB",
			1536:       "1.5 KiB",
			1048576:    "1.0 MiB",
			5242880:    "5.0 MiB",
			1073741824: "1.0 GiB",
		}

		for size, want := range cases {
			So(FormatBytes(size), ShouldEqual, want)
		}
	})
}
