package verification

import (
	"fmt"
	"strings"

	"github.com/trebuchet-org/detdeploy/internal/domain"
)

// successMarkers are matched against the lower-cased tool output. The tool's
// exit code is not reliable, so any of these wins over a non-zero exit.
var successMarkers = []string{
	"already verified",
	"successfully verified",
	"verification successful",
}

// Classify decides the verification outcome from the tool's exit code and combined output
func Classify(exitCode int, output string) domain.VerificationResult {
	result := domain.VerificationResult{Output: output}
	if exitCode == 0 {
		result.Success = true
		return result
	}

	lower := strings.ToLower(output)
	for _, marker := range successMarkers {
		if strings.Contains(lower, marker) {
			result.Success = true
			return result
		}
	}

	result.Error = output
	if output == "" {
		result.Error = fmt.Sprintf("verification failed with exit code %d", exitCode)
	}
	return result
}
