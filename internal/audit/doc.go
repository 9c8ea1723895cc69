// Package audit records lookups served by capi.
//
// When access_log is configured every request to the lookup endpoint,
// accepted or rejected, becomes one line of JSON:
//
//	{"ts":"...","request_id":"...","op":"lookup","outcome":"ok","requested":"3","position":3,"record_id":17,"key_slot":"CAPI_API_KEY_2"}
//
// The slot name records which configured key authenticated the request. The
// key itself is never written. SlotUsage summarizes a log by slot so an
// operator can tell when an old key has stopped being used.
//
// # Failure Handling
//
// Writing is best-effort. If a write fails the request is served anyway.
//
// # Reading Logs
//
// Use ReadEntries() to parse a log for display or analysis. Malformed
// entries are silently skipped to handle partial writes.
package audit
