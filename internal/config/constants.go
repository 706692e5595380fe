package config

import "time"

const (
	// Donation amount bounds (whole rupiah).
	MinDonationAmount = 1000
	MaxDonationAmount = 10_000_000

	// Session idle eviction
	SessionTimeout       = 10 * time.Minute
	SessionSweepInterval = 5 * time.Minute

	// QR image rendering
	QRImageSize = 300
)

// PresetAmounts are the fixed donation options shown on the reply keyboard.
var PresetAmounts = []int64{10_000, 25_000, 50_000, 100_000}
