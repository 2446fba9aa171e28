package sim_test

import (
	"sync"

	"github.com/edaniels/golog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/stress"
)

var _ = Describe("Engine", func() {
	var engine *sim.Engine

	BeforeEach(func() {
		joints := arm.DefaultJoints()
		engine = sim.NewEngine(joints, 0, sim.DefaultParams(joints), golog.Global())
	})

	Context("at the reset pose", func() {
		It("reports the stretched arm with the tool flipped", func() {
			s := engine.Snapshot()
			Expect(s.Frames).To(HaveLen(kinematics.FrameCount))
			ee := kinematics.EndEffector(s.Frames)
			Expect(ee.X).To(BeNumerically("~", 0.77, 1e-9))
			Expect(ee.Z).To(BeNumerically("~", 0, 1e-9))
			Expect(kinematics.Reach(s.Frames)).To(BeNumerically("~", 0.77, 1e-9))
		})

		It("estimates the highest load at the shoulder", func() {
			s := engine.Snapshot()
			Expect(s.Stress[0].Location).To(Equal("Shoulder"))
			Expect(s.Stress[0].TorqueStatic).To(BeNumerically(">", s.Stress[1].TorqueStatic))
			Expect(s.Stress[1].TorqueStatic).To(BeNumerically(">", s.Stress[2].TorqueStatic))
		})
	})

	Context("with a heavy payload", func() {
		It("flags the shoulder", func() {
			Expect(engine.SetPayload(200)).To(Succeed())
			Expect(engine.Snapshot().Stress[0].Status).To(Equal(stress.Failure))
		})
	})

	Context("when the arm is pointed straight up", func() {
		It("unloads every pivot", func() {
			Expect(engine.ApplyPose(arm.Pose{2: -90, 4: 0, 5: 0})).To(Succeed())
			for _, r := range engine.Snapshot().Stress {
				Expect(r.TorqueStatic).To(BeNumerically("~", 0, 1e-9))
				Expect(r.StressMPa).To(BeNumerically("<", 1e-6))
				Expect(r.Status).To(Equal(stress.Safe))
			}
		})
	})

	Context("under concurrent commands", func() {
		It("keeps joint state consistent", func() {
			var wg sync.WaitGroup
			for w := 0; w < 4; w++ {
				wg.Add(1)
				go func(w int) {
					defer GinkgoRecover()
					defer wg.Done()
					for i := 0; i < 100; i++ {
						engine.Tick(1.0 / 60)
						Expect(engine.SetTarget(1+w, float64(i%30))).To(Succeed())
						engine.Orbit(1, 0)
					}
				}(w)
			}
			wg.Wait()

			s := engine.Snapshot()
			Expect(s.Ticks).To(Equal(400))
			Expect(s.Trajectory).To(HaveLen(sim.TrajectoryCap))
		})
	})

	It("rejects unknown joints", func() {
		Expect(engine.SetTarget(0, 1)).To(MatchError(sim.ErrUnknownJoint))
		Expect(engine.ApplyPose(arm.Pose{99: 1})).To(MatchError(sim.ErrUnknownJoint))
	})
})
