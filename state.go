package tinyweb

// processStep is the engine's step cursor. The set of implementations is
// closed; anything else reaching the engine is treated as a corrupted cursor.
type processStep interface {
	String() string
	isProcessStep()
}

type (
	awaitClient    struct{}
	readHeader     struct{}
	parseHeader    struct{}
	selectMethod   struct{}
	processRequest struct{ method Method }
	endRequest     struct{ method Method }
)

func (awaitClient) String() string      { return "await client" }
func (readHeader) String() string       { return "read header" }
func (parseHeader) String() string      { return "parse header" }
func (selectMethod) String() string     { return "select method" }
func (s processRequest) String() string { return "process " + string(s.method) }
func (s endRequest) String() string     { return "end " + string(s.method) }

func (awaitClient) isProcessStep()    {}
func (readHeader) isProcessStep()     {}
func (parseHeader) isProcessStep()    {}
func (selectMethod) isProcessStep()   {}
func (processRequest) isProcessStep() {}
func (endRequest) isProcessStep()     {}

// transition returns the step that follows s. The method branch is taken from
// the request selected during selectMethod. endRequest and unknown steps have
// no successor and yield nil.
func transition(s processStep, req *request) processStep {
	switch s := s.(type) {
	case awaitClient:
		return readHeader{}
	case readHeader:
		return parseHeader{}
	case parseHeader:
		return selectMethod{}
	case selectMethod:
		return processRequest{method: req.method}
	case processRequest:
		return endRequest{method: s.method}
	default:
		return nil
	}
}
