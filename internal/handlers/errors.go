package handlers

import "errors"

var (
	errMissingThreadID = errors.New("threadId is required")
	errEmptyTurn       = errors.New("content or allowTool is required")
	errBadAgentID      = errors.New("agentId must be a UUID")
	errBadAllowTool    = errors.New("allowTool must be \"allow\" or \"deny\"")
	errBadDocumentID   = errors.New("documentIds must be UUIDs")
	errBadID           = errors.New("id must be a UUID")
	errUnknownModel    = errors.New("unknown provider/model combination")
	errMissingFile     = errors.New("multipart field \"file\" is required")
)
