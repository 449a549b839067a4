package usecase

import "time"

// Export private types and functions for testing

type TestLoginLimiter = loginLimiter

const LoginLimiterIdle = loginLimiterIdle
const LoginLimiterSweepSize = loginLimiterSweepSize

func NewTestLoginLimiter(rps float64, burst int) *TestLoginLimiter {
	return newLoginLimiter(rps, burst)
}

func (l *TestLoginLimiter) TestAllow(key string, now time.Time) bool {
	return l.allow(key, now)
}

func (l *TestLoginLimiter) TestSize() int {
	return l.size()
}
