package artifact_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/exorank/internal/artifact"
	"github.com/okian/exorank/internal/domain/scaling"
	"github.com/okian/exorank/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaultBundle(t *testing.T) {
	Convey("Given no bundle path", t, func() {
		b, err := artifact.Load("")

		Convey("Then the embedded default bundle should load", func() {
			So(err, ShouldBeNil)
			So(b.Version, ShouldNotBeEmpty)
			So(b.Schema.Len(), ShouldEqual, 8)
			So(b.Schema.Features()[0], ShouldEqual, schema.FeatRadius)
		})

		Convey("And the artifacts should agree on dimensions", func() {
			So(err, ShouldBeNil)
			vec := make(schema.Vector, b.Schema.Len())
			scaled, err := b.Scaler.Scale(vec)
			So(err, ShouldBeNil)

			p, err := b.Model.Score(scaled)
			So(err, ShouldBeNil)
			So(p, ShouldBeGreaterThan, 0)
			So(p, ShouldBeLessThan, 1)
		})
	})
}

func TestLoadBundleFromFile(t *testing.T) {
	Convey("Given a bundle file on disk", t, func() {
		write := func(body string) string {
			path := filepath.Join(t.TempDir(), "bundle.json")
			So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)
			return path
		}

		Convey("When the bundle is well formed", func() {
			path := write(`{
				"version": "test",
				"features": ["pl_rade", "pl_bmasse"],
				"scaler": {"mean": [1, 2], "scale": [1, 1]},
				"model": {"bias": 0, "weights": [0.5, -0.5]}
			}`)
			b, err := artifact.Load(path)

			Convey("Then it should load with the declared version", func() {
				So(err, ShouldBeNil)
				So(b.Version, ShouldEqual, "test")
				So(b.Schema.Len(), ShouldEqual, 2)
			})
		})

		Convey("When the scaler dimensions disagree with the features", func() {
			path := write(`{
				"features": ["pl_rade", "pl_bmasse"],
				"scaler": {"mean": [1], "scale": [1]},
				"model": {"bias": 0, "weights": [0.5, -0.5]}
			}`)
			_, err := artifact.Load(path)

			Convey("Then it should fail with a schema mismatch", func() {
				So(errors.Is(err, scaling.ErrSchemaMismatch), ShouldBeTrue)
			})
		})

		Convey("When the model weights disagree with the features", func() {
			path := write(`{
				"features": ["pl_rade", "pl_bmasse"],
				"scaler": {"mean": [1, 2], "scale": [1, 1]},
				"model": {"bias": 0, "weights": [0.5]}
			}`)
			_, err := artifact.Load(path)

			Convey("Then it should fail with a schema mismatch", func() {
				So(errors.Is(err, scaling.ErrSchemaMismatch), ShouldBeTrue)
			})
		})

		Convey("When the feature list is empty", func() {
			path := write(`{"features": [], "scaler": {"mean": [], "scale": []}, "model": {"bias": 0, "weights": []}}`)
			_, err := artifact.Load(path)

			So(errors.Is(err, scaling.ErrSchemaMismatch), ShouldBeTrue)
		})

		Convey("When the file is not valid JSON", func() {
			path := write(`not json`)
			_, err := artifact.Load(path)

			So(err, ShouldNotBeNil)
		})

		Convey("When the file does not exist", func() {
			_, err := artifact.Load(filepath.Join(t.TempDir(), "missing.json"))

			So(err, ShouldNotBeNil)
		})
	})
}
