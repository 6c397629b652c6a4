package errors

// Process exit codes for setup failures. They follow sysexits(3) where a
// matching code exists, so CI logs can tell the failing step apart.
const (
	ExitOK                 = 0
	ExitGeneric            = 1
	ExitUsage              = 64 // EX_USAGE
	ExitActivationFailed   = 71 // EX_OSERR
	ExitCreationFailed     = 73 // EX_CANTCREAT
	ExitProbeFailed        = 74 // EX_IOERR
	ExitInstallFailed      = 75 // EX_TEMPFAIL
	ExitConfigInvalid      = 78 // EX_CONFIG
	ExitRunnerNotInvokable = 127
)

// EnvironmentCreation wraps a failure of the create step.
func EnvironmentCreation(err error, root string) *Error {
	if err == nil {
		return nil
	}
	return Wrapf(err, ErrEnvironmentCreate, "failed to create environment at %s", root).
		WithDetail("root", root)
}

// DependencyInstall wraps a failure to install the named manifest.
func DependencyInstall(err error, manifest string) *Error {
	if err == nil {
		return nil
	}
	return Wrapf(err, ErrDependencyInstall, "failed to install manifest %q", manifest).
		WithDetail("manifest", manifest)
}

// RunnerInvocation wraps a failure to locate or start the runner.
func RunnerInvocation(err error, command string) *Error {
	if err == nil {
		return nil
	}
	return Wrapf(err, ErrRunnerInvoke, "failed to invoke runner %q", command).
		WithDetail("command", command)
}

// FailedManifest returns the manifest named by a DEPENDENCY_INSTALL error.
func FailedManifest(err error) (string, bool) {
	if !IsErrorCode(err, ErrDependencyInstall) {
		return "", false
	}
	name, ok := GetErrorDetails(err)["manifest"].(string)
	return name, ok
}

// ExitCode maps an error to the process exit code envboot terminates with.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetErrorCode(err) {
	case ErrInvalidInput:
		return ExitUsage
	case ErrConfigLoad, ErrConfigParse, ErrConfigValid:
		return ExitConfigInvalid
	case ErrEnvironmentCreate:
		return ExitCreationFailed
	case ErrEnvironmentActivate:
		return ExitActivationFailed
	case ErrEnvironmentProbe:
		return ExitProbeFailed
	case ErrDependencyInstall, ErrManifestNotFound, ErrManifestParse:
		return ExitInstallFailed
	case ErrRunnerInvoke:
		return ExitRunnerNotInvokable
	default:
		return ExitGeneric
	}
}
