package dispatcher

// getModuleName :
// Returns the module name to use when this package emits log
// messages through the logger interface.
func getModuleName() string {
	return "dispatcher"
}
