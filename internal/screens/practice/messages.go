package practice

import "github.com/abhisek/mathquest/internal/problemgen"

// questionsReadyMsg is sent once the question batch has been generated.
type questionsReadyMsg struct {
	Slots []problemgen.SlotResult
}

// feedbackDoneMsg is sent when the learner dismisses answer feedback.
type feedbackDoneMsg struct{}

// sessionEndMsg is sent to trigger the session end flow.
type sessionEndMsg struct{}

// sessionSavedMsg reports the result of persisting the finished session.
type sessionSavedMsg struct {
	Err error
}
