package app

import (
	"log"
	"time"

	"github.com/ayusman/holstercoach/internal/analysis"
	"github.com/ayusman/holstercoach/internal/server"
)

// runPipeline is the main capture loop. It runs at a fixed frame rate:
//
//  1. Read a frame from the camera
//  2. Run pose detection
//  3. Compute biomechanical metrics from the keypoints
//  4. Feed the active session controller (draw timing, feedback)
//  5. Publish the frame's pose/metrics/feedback to live clients
//
// Detection errors and frames with no subject are skipped; the session
// controller is only fed frames that carried a pose, so transient dropouts
// never reset an in-progress draw.
func (a *App) runPipeline() {
	frameInterval := time.Second / time.Duration(a.config.FPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			// Skip processing if the pipeline is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			a.metrics.FramesProcessed.Inc()

			width, height := frame.Cols(), frame.Rows()

			p, err := a.Detector().Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				a.metrics.DetectionErrors.Inc()
				log.Printf("Error detecting pose: %v", err)
				continue
			}
			if p == nil {
				// No subject in frame
				continue
			}
			a.metrics.PosesDetected.Inc()

			m := analysis.Compute(p, width, height)
			a.session.Feed(p, m)

			if a.live != nil && a.live.ClientCount() > 0 {
				a.live.Publish(server.LiveUpdate{
					Pose:     p,
					Metrics:  m,
					Feedback: a.takeFeedback(),
				})
			}
		}
	}
}
