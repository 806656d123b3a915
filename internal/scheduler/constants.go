package scheduler

// LogMsgJobScheduled is logged when a job is registered.
const LogMsgJobScheduled = "Job scheduled"
