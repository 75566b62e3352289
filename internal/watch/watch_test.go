package watch_test

import (
	"errors"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/trakieu/artifactbeacon/beacon"
	"github.com/trakieu/artifactbeacon/internal/mqtt"
	"github.com/trakieu/artifactbeacon/internal/watch"
)

const addr = "24:0a:c4:00:00:01"

var t0 = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func sighting(at time.Duration) watch.Observation {
	return watch.Observation{
		Address:   addr,
		LocalName: beacon.ArtifactName,
		RSSI:      -55,
		SeenAt:    t0.Add(at),
	}
}

type fakePublisher struct {
	sightings []mqtt.Sighting
	presence  []mqtt.Presence
	err       error
}

func (f *fakePublisher) PublishSighting(s mqtt.Sighting) error {
	if f.err != nil {
		return f.err
	}
	f.sightings = append(f.sightings, s)
	return nil
}

func (f *fakePublisher) PublishPresence(p mqtt.Presence) error {
	f.presence = append(f.presence, p)
	return nil
}

var _ = Describe("Verifier", func() {
	var v *watch.Verifier

	BeforeEach(func() {
		v = watch.NewVerifier(watch.DefaultExpectation(beacon.ArtifactName))
	})

	It("matches only the artifact name", func() {
		Expect(v.Matches(sighting(0))).To(BeTrue())
		other := sighting(0)
		other.LocalName = "TraKieu_Apsara"
		Expect(v.Matches(other)).To(BeFalse())
	})

	It("accepts a non-connectable beacon", func() {
		res := v.Verify(sighting(0))
		Expect(res.OK()).To(BeTrue())
		Expect(res.Interval).To(BeZero())
	})

	It("flags connectable advertising", func() {
		obs := sighting(0)
		obs.Connectable = true
		res := v.Verify(obs)
		Expect(res.OK()).To(BeFalse())
		Expect(res.Violations).To(ContainElement(ContainSubstring("connectable")))
	})

	It("flags a different name", func() {
		obs := sighting(0)
		obs.LocalName = "ESP32"
		Expect(v.Verify(obs).Violations).To(ContainElement(ContainSubstring(`"ESP32"`)))
	})

	Describe("interval estimate", func() {
		feed := func(interval time.Duration, n int) watch.Result {
			var res watch.Result
			for i := 0; i <= n; i++ {
				res = v.Verify(sighting(time.Duration(i) * interval))
			}
			return res
		}

		It("waits for enough gaps", func() {
			Expect(feed(110*time.Millisecond, 3).Interval).To(BeZero())
		})

		It("reports the shortest gap", func() {
			res := feed(110*time.Millisecond, 6)
			Expect(res.Interval).To(Equal(110 * time.Millisecond))
			Expect(res.OK()).To(BeTrue())
		})

		It("ignores the same event received on two channels", func() {
			feed(110*time.Millisecond, 6)
			res := v.Verify(sighting(6*110*time.Millisecond + 600*time.Microsecond))
			Expect(res.Interval).To(Equal(110 * time.Millisecond))
		})

		It("tolerates missed events", func() {
			v.Verify(sighting(0))
			v.Verify(sighting(330 * time.Millisecond))
			for i := 4; i <= 8; i++ {
				v.Verify(sighting(time.Duration(i) * 110 * time.Millisecond))
			}
			Expect(v.Verify(sighting(990 * time.Millisecond)).Interval).To(Equal(110 * time.Millisecond))
		})

		It("accepts a 100ms beacon with random advertising delay", func() {
			for i, delay := range []int{8, 2, 7, 1, 9, 3, 6, 0} {
				at := time.Duration(i)*100*time.Millisecond + time.Duration(delay)*time.Millisecond
				res := v.Verify(sighting(at))
				Expect(res.Violations).To(BeEmpty())
			}
			res := v.Verify(sighting(800*time.Millisecond + 5*time.Millisecond))
			Expect(res.Interval).To(Equal(94 * time.Millisecond))
			Expect(res.OK()).To(BeTrue())
		})

		It("flags a beacon advertising too fast", func() {
			res := feed(30*time.Millisecond, 6)
			Expect(res.Violations).To(ContainElement(ContainSubstring("below")))
		})

		It("flags a beacon advertising too slowly", func() {
			res := feed(1*time.Second, 6)
			Expect(res.Violations).To(ContainElement(ContainSubstring("above")))
		})

		It("keeps addresses apart", func() {
			feed(110*time.Millisecond, 6)
			other := sighting(0)
			other.Address = "24:0a:c4:00:00:02"
			Expect(v.Verify(other).Interval).To(BeZero())
		})
	})
})

var _ = Describe("Handler", func() {
	var (
		pub *fakePublisher
		h   *watch.Handler
	)

	BeforeEach(func() {
		pub = &fakePublisher{}
		v := watch.NewVerifier(watch.DefaultExpectation(beacon.ArtifactName))
		h = watch.NewHandler(v, pub, 10*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("ignores other devices", func() {
		obs := sighting(0)
		obs.LocalName = "Headphones"
		h.HandleObservation(obs)
		Expect(pub.sightings).To(BeEmpty())
		Expect(h.Stats().Observations).To(BeZero())
	})

	It("publishes a sighting and retained presence", func() {
		h.HandleObservation(sighting(0))
		Expect(pub.sightings).To(HaveLen(1))
		Expect(pub.sightings[0].Artifact).To(Equal(beacon.ArtifactName))
		Expect(pub.sightings[0].Address).To(Equal(addr))
		Expect(pub.sightings[0].RSSI).To(Equal(-55))
		Expect(pub.sightings[0].IntervalMS).To(BeNil())
		Expect(pub.presence).To(HaveLen(1))
		Expect(pub.presence[0].Nearby).To(BeTrue())
		Expect(h.Stats()).To(Equal(watch.Stats{Observations: 1, Published: 1}))
	})

	It("deduplicates within the window", func() {
		for i := 0; i < 50; i++ {
			h.HandleObservation(sighting(time.Duration(i) * 110 * time.Millisecond))
		}
		Expect(pub.sightings).To(HaveLen(1))

		h.HandleObservation(sighting(11 * time.Second))
		Expect(pub.sightings).To(HaveLen(2))
		Expect(*pub.sightings[1].IntervalMS).To(BeNumerically("~", 110, 0.001))
		Expect(h.Stats().Observations).To(Equal(51))
	})

	It("publishes violations", func() {
		obs := sighting(0)
		obs.Connectable = true
		h.HandleObservation(obs)
		Expect(pub.sightings[0].Connectable).To(BeTrue())
		Expect(pub.sightings[0].Violations).NotTo(BeEmpty())
		Expect(h.Stats().Violations).To(Equal(1))
	})

	It("keeps going when publishing fails", func() {
		pub.err = errors.New("not connected")
		h.HandleObservation(sighting(0))
		Expect(pub.presence).To(BeEmpty())
		Expect(h.Stats().Published).To(BeZero())
	})

	It("retries a failed publish on the next observation", func() {
		pub.err = errors.New("not connected")
		h.HandleObservation(sighting(0))
		Expect(pub.sightings).To(BeEmpty())

		pub.err = nil
		h.HandleObservation(sighting(110 * time.Millisecond))
		Expect(pub.sightings).To(HaveLen(1))
		Expect(pub.sightings[0].SeenAt).To(Equal(t0.Add(110 * time.Millisecond)))
		Expect(h.Stats().Published).To(Equal(1))

		h.HandleObservation(sighting(220 * time.Millisecond))
		Expect(pub.sightings).To(HaveLen(1))
	})

	It("verifies without a publisher", func() {
		v := watch.NewVerifier(watch.DefaultExpectation(beacon.ArtifactName))
		h := watch.NewHandler(v, nil, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
		h.HandleObservation(sighting(0))
		h.HandleObservation(sighting(110 * time.Millisecond))
		Expect(h.Stats().Observations).To(Equal(2))
	})
})
