package health

// Checker reports whether some part of the application is healthy. A nil error means healthy.
type Checker interface {
	Check() error
}

// LivenessChecker always passes: the process serving the request is alive.
type LivenessChecker struct{}

func NewLivenessChecker() *LivenessChecker {
	return &LivenessChecker{}
}

func (c *LivenessChecker) Check() error {
	return nil
}
