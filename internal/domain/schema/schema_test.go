package schema_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/exorank/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSchemaValidate(t *testing.T) {
	Convey("Given a schema with three ordered features", t, func() {
		s := schema.New([]string{"pl_rade", "pl_bmasse", "pl_eqt"})

		Convey("When the payload contains every feature", func() {
			vec, err := s.Validate(map[string]any{
				"pl_rade":   1.0,
				"pl_bmasse": 1.0,
				"pl_eqt":    288.0,
			})

			Convey("Then it should return the values in schema order", func() {
				So(err, ShouldBeNil)
				So(vec, ShouldResemble, schema.Vector{1.0, 1.0, 288.0})
			})
		})

		Convey("When the payload carries integer values", func() {
			vec, err := s.Validate(map[string]any{
				"pl_rade":   1,
				"pl_bmasse": int64(2),
				"pl_eqt":    288,
			})

			Convey("Then integers should coerce to floats", func() {
				So(err, ShouldBeNil)
				So(vec, ShouldResemble, schema.Vector{1.0, 2.0, 288.0})
			})
		})

		Convey("When the first feature is missing", func() {
			_, err := s.Validate(map[string]any{
				"pl_bmasse": 1.0,
				"pl_eqt":    288.0,
			})

			Convey("Then the error should name the first missing field", func() {
				var missing *schema.MissingFeatureError
				So(errors.As(err, &missing), ShouldBeTrue)
				So(missing.Field, ShouldEqual, "pl_rade")
			})
		})

		Convey("When several features are missing", func() {
			_, err := s.Validate(map[string]any{"pl_eqt": 288.0})

			Convey("Then the error should name the first one in schema order", func() {
				var missing *schema.MissingFeatureError
				So(errors.As(err, &missing), ShouldBeTrue)
				So(missing.Field, ShouldEqual, "pl_rade")
			})
		})

		Convey("When a feature has a non-numeric value", func() {
			_, err := s.Validate(map[string]any{
				"pl_rade":   "big",
				"pl_bmasse": 1.0,
				"pl_eqt":    288.0,
			})

			Convey("Then it should report an invalid type for that field", func() {
				var invalid *schema.InvalidTypeError
				So(errors.As(err, &invalid), ShouldBeTrue)
				So(invalid.Field, ShouldEqual, "pl_rade")
			})
		})

		Convey("When a feature is NaN or infinite", func() {
			for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				_, err := s.Validate(map[string]any{
					"pl_rade":   v,
					"pl_bmasse": 1.0,
					"pl_eqt":    288.0,
				})

				var invalid *schema.InvalidTypeError
				So(errors.As(err, &invalid), ShouldBeTrue)
				So(invalid.Field, ShouldEqual, "pl_rade")
			}
		})
	})
}

func TestSchemaAccessors(t *testing.T) {
	Convey("Given a schema", t, func() {
		s := schema.New([]string{"st_teff", "st_rad"})

		Convey("Then Len and Features should reflect the order given", func() {
			So(s.Len(), ShouldEqual, 2)
			So(s.Features(), ShouldResemble, []string{"st_teff", "st_rad"})
		})

		Convey("Then Index should locate known features only", func() {
			i, ok := s.Index("st_rad")
			So(ok, ShouldBeTrue)
			So(i, ShouldEqual, 1)

			_, ok = s.Index("sy_dist")
			So(ok, ShouldBeFalse)
		})

		Convey("Then Value should read a named slot from a vector", func() {
			v, ok := s.Value(schema.Vector{5778, 1.0}, "st_teff")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 5778)

			_, ok = s.Value(schema.Vector{5778}, "st_rad")
			So(ok, ShouldBeFalse)
		})

		Convey("Then mutating the Features copy should not affect the schema", func() {
			f := s.Features()
			f[0] = "mutated"
			So(s.Features()[0], ShouldEqual, "st_teff")
		})
	})
}
