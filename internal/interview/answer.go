package interview

import (
	"time"

	"github.com/google/uuid"
)

// AudioFeatures is the prosodic feature bundle extracted from an answer
// recording by the capture pipeline. The engine never sees raw audio; it
// scores these derived measurements only.
type AudioFeatures struct {
	DurationSec           float64 `json:"duration_sec"`
	RMSEnergy             float64 `json:"rms_energy"`
	IntensityMean         float64 `json:"intensity_mean"` // dB
	IntensityStd          float64 `json:"intensity_std"`
	F0Mean                float64 `json:"f0_mean"` // Hz
	F0Std                 float64 `json:"f0_std"`
	Jitter                float64 `json:"jitter"`
	Shimmer               float64 `json:"shimmer"`
	SpectralCentroidMean  float64 `json:"spectral_centroid_mean"`
	SpectralBandwidthMean float64 `json:"spectral_bandwidth_mean"`
	MFCCStd               float64 `json:"mfcc_std"`
	ZCRMean               float64 `json:"zcr_mean"`
	VoicedRatio           float64 `json:"voiced_ratio"`
	Gender                string  `json:"gender,omitempty"` // "male" | "female" | "" (unknown norms)
}

// VideoFeatures is the visual feature bundle extracted from an answer
// recording. All ratios are 0..1; BlinkRate is blinks per minute.
type VideoFeatures struct {
	DurationSec           float64 `json:"duration_sec"`
	GazeContactRatio      float64 `json:"gaze_contact_ratio"`
	BlinkRate             float64 `json:"blink_rate"`
	HeadStability         float64 `json:"head_stability"`
	SmileRatio            float64 `json:"smile_ratio"`
	ExpressionVariability float64 `json:"expression_variability"`
}

// Answer is a candidate's response to one question. Audio and video
// bundles are optional; text is always required.
type Answer struct {
	QuestionID  uuid.UUID      `json:"question_id"`
	Text        string         `json:"text"`
	Audio       *AudioFeatures `json:"audio,omitempty"`
	Video       *VideoFeatures `json:"video,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
}
