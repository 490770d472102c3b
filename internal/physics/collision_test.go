package physics

import (
	"github.com/golang/geo/r2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("wall tracking", func() {
	var body *SoftBody

	// strike drives node 0 into the given wall on the next tick.
	strike := func(w Wall) {
		n := &body.nodes[0]
		switch w {
		case WallLeft:
			n.Position, n.Velocity = r2.Point{X: 1e-3, Y: 200}, r2.Point{X: -1}
		case WallRight:
			n.Position, n.Velocity = r2.Point{X: 400 - 1e-3, Y: 200}, r2.Point{X: 1}
		case WallTop:
			n.Position, n.Velocity = r2.Point{X: 200, Y: 1e-3}, r2.Point{Y: -1}
		case WallBottom:
			n.Position, n.Velocity = r2.Point{X: 200, Y: 400 - 1e-3}, r2.Point{Y: 1}
		}
		body.Advance(0.01, noDrag, box400)
	}

	// coast moves node 0 back to the middle and ticks without touching a wall.
	coast := func() {
		n := &body.nodes[0]
		n.Position, n.Velocity = r2.Point{X: 200, Y: 200}, r2.Point{}
		body.Advance(0.01, noDrag, box400)
	}

	BeforeEach(func() {
		var err error
		body, err = NewRing(r2.Point{X: 200, Y: 200}, 50, 8, quietConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts with no wall and no pending collision", func() {
		Expect(body.LastWall()).To(Equal(WallNone))
		Expect(body.NewCollision()).To(BeFalse())
	})

	It("does not signal while nothing is hit", func() {
		coast()
		Expect(body.NewCollision()).To(BeFalse())
		Expect(body.LastWall()).To(Equal(WallNone))
	})

	It("signals the first wall it meets", func() {
		strike(WallLeft)

		wall, fresh := body.TakeCollision()
		Expect(fresh).To(BeTrue())
		Expect(wall).To(Equal(WallLeft))
	})

	It("does not re-trigger on the same wall twice in a row", func() {
		strike(WallLeft)
		_, fresh := body.TakeCollision()
		Expect(fresh).To(BeTrue())

		strike(WallLeft)
		_, fresh = body.TakeCollision()
		Expect(fresh).To(BeFalse())
	})

	It("triggers when a different wall follows", func() {
		strike(WallLeft)
		body.TakeCollision()

		strike(WallTop)
		wall, fresh := body.TakeCollision()
		Expect(fresh).To(BeTrue())
		Expect(wall).To(Equal(WallTop))
	})

	It("keeps the last wall across quiet ticks", func() {
		strike(WallRight)
		body.TakeCollision()

		for i := 0; i < 5; i++ {
			coast()
		}
		Expect(body.LastWall()).To(Equal(WallRight))
		Expect(body.NewCollision()).To(BeFalse())

		strike(WallRight)
		Expect(body.NewCollision()).To(BeFalse())
	})

	It("holds the edge until it is consumed", func() {
		strike(WallBottom)
		coast()
		coast()

		Expect(body.NewCollision()).To(BeTrue())
		wall, fresh := body.TakeCollision()
		Expect(fresh).To(BeTrue())
		Expect(wall).To(Equal(WallBottom))
		Expect(body.NewCollision()).To(BeFalse())
	})

	DescribeTable("every wall is reported by name",
		func(w Wall, name string) {
			strike(w)
			got, fresh := body.Collided()
			Expect(fresh).To(BeTrue())
			Expect(got).To(Equal(name))
		},
		Entry("top", WallTop, "top"),
		Entry("bottom", WallBottom, "bottom"),
		Entry("left", WallLeft, "left"),
		Entry("right", WallRight, "right"),
	)
})
