package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/exorank/internal/adapters/repository"
	service "github.com/okian/exorank/internal/app"
	"github.com/okian/exorank/internal/artifact"
	"github.com/okian/exorank/internal/domain/scaling"
	"github.com/okian/exorank/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

var featureNames = []string{
	schema.FeatRadius, schema.FeatMass, schema.FeatEqTemp, schema.FeatOrbitalPeriod,
	schema.FeatStellarTemp, schema.FeatStellarRadius, schema.FeatStellarLum, schema.FeatDistance,
}

// passthroughScaler keeps raw values so tests can reason about the model
// input directly.
type passthroughScaler struct{ n int }

func (s *passthroughScaler) Scale(vec schema.Vector) (schema.Vector, error) {
	if len(vec) != s.n {
		return nil, scaling.ErrSchemaMismatch
	}
	out := make(schema.Vector, len(vec))
	copy(out, vec)
	return out, nil
}

// stubModel returns a fixed score, making every pipeline stage predictable.
type stubModel struct{ score float64 }

func (m *stubModel) Name() string { return "stub" }

func (m *stubModel) Score(schema.Vector) (float64, error) { return m.score, nil }

func newService(t *testing.T, rawScore float64, opts ...service.Option) *service.Service {
	t.Helper()
	bundle := &artifact.Bundle{
		Version: "test",
		Schema:  schema.New(featureNames),
		Scaler:  &passthroughScaler{n: len(featureNames)},
		Model:   &stubModel{score: rawScore},
	}
	svc, err := service.New(bundle, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func earthPayload() map[string]any {
	return map[string]any{
		schema.FeatRadius: 1.0, schema.FeatMass: 1.0, schema.FeatEqTemp: 288.0,
		schema.FeatOrbitalPeriod: 365.0, schema.FeatStellarTemp: 5778.0,
		schema.FeatStellarRadius: 1.0, schema.FeatStellarLum: 0.0, schema.FeatDistance: 10.0,
	}
}

func jupiterPayload() map[string]any {
	return map[string]any{
		schema.FeatRadius: 11.2, schema.FeatMass: 317.8, schema.FeatEqTemp: 165.0,
		schema.FeatOrbitalPeriod: 4333.0, schema.FeatStellarTemp: 5778.0,
		schema.FeatStellarRadius: 1.0, schema.FeatStellarLum: 0.0, schema.FeatDistance: 10.0,
	}
}

func TestPredict(t *testing.T) {
	ctx := context.Background()

	Convey("Given an Earth-like body and a pessimistic model", t, func() {
		svc := newService(t, 0.3)

		Convey("When predicting", func() {
			res, err := svc.Predict(ctx, "Earth", earthPayload(), false)

			Convey("Then the override should floor the score at 0.85", func() {
				So(err, ShouldBeNil)
				So(res.Probability, ShouldEqual, 0.85)
				So(res.Habitable, ShouldBeTrue)
				So(res.HeuristicApplied, ShouldBeTrue)
				So(res.Persisted, ShouldBeFalse)
			})
		})
	})

	Convey("Given a Jupiter-like body and a pessimistic model", t, func() {
		svc := newService(t, 0.02)

		res, err := svc.Predict(ctx, "Jupiter", jupiterPayload(), false)

		Convey("Then the score should pass through unchanged", func() {
			So(err, ShouldBeNil)
			So(res.Probability, ShouldEqual, 0.02)
			So(res.Habitable, ShouldBeFalse)
			So(res.HeuristicApplied, ShouldBeFalse)
		})
	})

	Convey("Given a payload missing a feature", t, func() {
		svc := newService(t, 0.5)
		payload := earthPayload()
		delete(payload, schema.FeatRadius)

		_, err := svc.Predict(ctx, "Earth", payload, false)

		Convey("Then the validation error should propagate verbatim", func() {
			var missing *schema.MissingFeatureError
			So(errors.As(err, &missing), ShouldBeTrue)
			So(missing.Field, ShouldEqual, schema.FeatRadius)
		})
	})

	Convey("Given a model output beyond the unit interval", t, func() {
		svc := newService(t, 1.7)

		res, err := svc.Predict(ctx, "Hot", jupiterPayload(), false)

		Convey("Then the probability should clamp to 1", func() {
			So(err, ShouldBeNil)
			So(res.Probability, ShouldEqual, 1.0)
			So(res.Habitable, ShouldBeTrue)
		})
	})

	Convey("Given reported precision of four decimals", t, func() {
		svc := newService(t, 0.123456)

		res, err := svc.Predict(ctx, "X", jupiterPayload(), false)

		Convey("Then the reported probability should be rounded", func() {
			So(err, ShouldBeNil)
			So(res.Probability, ShouldEqual, 0.1235)
		})
	})

	Convey("Given a raw score that rounds up to the threshold", t, func() {
		svc := newService(t, 0.49996)

		res, err := svc.Predict(ctx, "Edge", jupiterPayload(), false)

		Convey("Then classification should follow the rounded probability", func() {
			So(err, ShouldBeNil)
			So(res.Probability, ShouldEqual, 0.5)
			So(res.Habitable, ShouldBeTrue)
		})
	})
}

func TestPredictPersistence(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a stored body", t, func() {
		store := repository.NewMemoryStore()
		svc := newService(t, 0.42, service.WithStore(store))
		So(svc.AddBody(ctx, "Kepler-22b", earthPayload()), ShouldBeNil)

		Convey("When predicting with persistence for the stored name", func() {
			res, err := svc.Predict(ctx, "Kepler-22b", earthPayload(), true)

			Convey("Then the unrounded adjusted score should be stored", func() {
				So(err, ShouldBeNil)
				So(res.Persisted, ShouldBeTrue)

				b, err := store.GetByName(ctx, "Kepler-22b")
				So(err, ShouldBeNil)
				So(*b.Score, ShouldEqual, 0.85)
				So(*b.Habitable, ShouldBeTrue)
				So(*b.Rank, ShouldEqual, 1)
			})

			Convey("And a repeated identical call should change nothing", func() {
				So(err, ShouldBeNil)
				again, err := svc.Predict(ctx, "Kepler-22b", earthPayload(), true)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, res)

				b, err := store.GetByName(ctx, "Kepler-22b")
				So(err, ShouldBeNil)
				So(*b.Score, ShouldEqual, 0.85)
			})
		})

		Convey("When predicting for an unknown name", func() {
			res, err := svc.Predict(ctx, "Gliese-581g", earthPayload(), true)

			Convey("Then the result should return without persisting", func() {
				So(err, ShouldBeNil)
				So(res.Persisted, ShouldBeFalse)
				_, err := store.GetByName(ctx, "Gliese-581g")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When predicting without persistence", func() {
			res, err := svc.Predict(ctx, "Kepler-22b", earthPayload(), false)

			Convey("Then the stored body should stay unscored", func() {
				So(err, ShouldBeNil)
				So(res.Persisted, ShouldBeFalse)

				b, err := store.GetByName(ctx, "Kepler-22b")
				So(err, ShouldBeNil)
				So(b.Score, ShouldBeNil)
			})
		})
	})
}

func TestAddBody(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		svc := newService(t, 0.5)

		Convey("When adding a body twice", func() {
			So(svc.AddBody(ctx, "Earth", earthPayload()), ShouldBeNil)
			err := svc.AddBody(ctx, "Earth", earthPayload())

			Convey("Then the second add should report a duplicate", func() {
				So(errors.Is(err, repository.ErrDuplicateName), ShouldBeTrue)
			})
		})

		Convey("When adding with an empty name", func() {
			err := svc.AddBody(ctx, "", earthPayload())
			So(errors.Is(err, service.ErrEmptyName), ShouldBeTrue)
		})

		Convey("When adding with an incomplete payload", func() {
			payload := earthPayload()
			delete(payload, schema.FeatStellarTemp)
			err := svc.AddBody(ctx, "Partial", payload)

			Convey("Then validation should fail naming the field", func() {
				var missing *schema.MissingFeatureError
				So(errors.As(err, &missing), ShouldBeTrue)
				So(missing.Field, ShouldEqual, schema.FeatStellarTemp)
			})

			Convey("And nothing should be stored", func() {
				So(err, ShouldNotBeNil)
				So(svc.Stats(ctx)["bodies"], ShouldEqual, 0)
			})
		})
	})
}

func TestTopK(t *testing.T) {
	ctx := context.Background()

	Convey("Given several scored bodies", t, func() {
		store := repository.NewMemoryStore()
		svc := newService(t, 0.02, service.WithStore(store), service.WithDefaultTopK(2))

		for name, score := range map[string]float64{"a": 0.7, "b": 0.9, "c": 0.7} {
			So(store.Insert(ctx, repository.Body{Name: name, Features: make([]float64, len(featureNames))}), ShouldBeNil)
			So(store.UpdateScore(ctx, name, score, score >= 0.5), ShouldBeNil)
		}

		Convey("When asking for the full board", func() {
			entries, err := svc.TopK(ctx, 10)

			Convey("Then entries should be ordered with deterministic tie-break", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Name, ShouldEqual, "b")
				So(entries[1].Name, ShouldEqual, "a")
				So(entries[2].Name, ShouldEqual, "c")
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When asking with a non-positive k", func() {
			entries, err := svc.TopK(ctx, 0)

			Convey("Then the configured default window should apply", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given a service with one body", t, func() {
		svc := newService(t, 0.5)
		ctx := context.Background()
		So(svc.AddBody(ctx, "Earth", earthPayload()), ShouldBeNil)

		stats := svc.Stats(ctx)

		Convey("Then stats should describe the loaded artifacts and population", func() {
			So(stats["bodies"], ShouldEqual, 1)
			So(stats["model"], ShouldEqual, "stub")
			So(stats["bundle_version"], ShouldEqual, "test")
		})
	})
}
