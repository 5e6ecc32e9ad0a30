// Package scrolltrap handles friend requests and DM escalation.
//
// This file implements the accept/reject flow and the escalation generator:
// accepting a suspicious profile synthesizes (or extends) a scam DM thread
// whose messages walk a fixed list of increasingly personal questions. This
// is the teen-safety mechanic the reveal screen explains. Accepting is
// idempotent per request; rejecting mutates nothing, so the request stays
// available for other triggers.
package scrolltrap

import (
	"time"

	"github.com/google/uuid"
)

// RespondFriendRequest resolves the friend-request modal. Accept moves the
// active request into the accepted set (with escalation side effects for
// suspicious profiles); reject just closes the modal.
func (s *Session) RespondFriendRequest(accept bool) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying || s.state.ActiveFriendRequest == nil {
			return
		}
		req := *s.state.ActiveFriendRequest
		s.state.ActiveFriendRequest = nil
		if s.state.BlockingModalKind == ModalFriendRequest {
			s.state.BlockingModalKind = ModalNone
		}
		if accept {
			s.acceptRequestLocked(req)
		}
	})
}

// AcceptFriendRequest accepts a pending request by ID. Idempotent:
// accepting an already-accepted request has no further effect.
func (s *Session) AcceptFriendRequest(requestID string) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		for i := range s.state.FriendRequestsPending {
			if s.state.FriendRequestsPending[i].ID == requestID {
				s.acceptRequestLocked(s.state.FriendRequestsPending[i])
				return
			}
		}
	})
}

// acceptRequestLocked performs the first-acceptance transition: pending ->
// accepted, plus the suspicious-profile escalation.
func (s *Session) acceptRequestLocked(req FriendRequestProfile) {
	if s.state.isAccepted(req.ID) {
		return
	}
	s.state.removePending(req.ID)
	s.state.FriendRequestsAccepted = append(s.state.FriendRequestsAccepted, req)

	if !req.Suspicious {
		s.state.bumpMood(s.mood.FriendAcceptBoost, 0, s.mood.Ceiling)
		return
	}

	s.state.Flags.RefusedAllSuspiciousRequests = false
	threadID := s.escalateLocked(req)
	s.sched.After(tagDMOpen, time.Duration(s.trig.EscalationOpenDelayMs)*time.Millisecond, func() {
		s.openEscalationThread(threadID)
	})
}

// escalateLocked appends an escalating question to an existing thread with
// the request's handle, or synthesizes a new 2-message thread (greeting +
// question) prepended to the inbox. Returns the thread ID.
func (s *Session) escalateLocked(req FriendRequestProfile) string {
	if idx := s.state.findThreadByHandle(req.Handle); idx >= 0 {
		thread := &s.state.DMInbox[idx]
		question := s.nextEscalationQuestionLocked(thread)
		thread.Messages = append(thread.Messages, DMMessage{Sender: "them", Text: question, TimeLabel: "now"})
		thread.Preview = question
		thread.Scam = true
		thread.TeenSafetyEscalation = true
		return thread.ID
	}

	question := escalationQuestions[s.rng.Intn(len(escalationQuestions))]
	thread := DMThread{
		ID:      uuid.NewString(),
		Handle:  req.Handle,
		Avatar:  req.Avatar,
		Preview: question,
		Messages: []DMMessage{
			{Sender: "them", Text: escalationGreeting, TimeLabel: "now"},
			{Sender: "them", Text: question, TimeLabel: "now"},
		},
		Scam:                 true,
		TeenSafetyEscalation: true,
		EscalationStep:       1,
	}
	s.state.DMInbox = append([]DMThread{thread}, s.state.DMInbox...)
	return thread.ID
}

// nextEscalationQuestionLocked walks the fixed question list forward,
// holding on the last (most invasive) question once exhausted.
func (s *Session) nextEscalationQuestionLocked(thread *DMThread) string {
	step := thread.EscalationStep
	if step >= len(escalationQuestions) {
		step = len(escalationQuestions) - 1
	}
	thread.EscalationStep = step + 1
	return escalationQuestions[step]
}

// openEscalationThread opens the synthesized thread after the configured
// delay, unless the session already moved on.
func (s *Session) openEscalationThread(threadID string) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying || s.state.findThreadByID(threadID) < 0 {
			return
		}
		s.state.OpenDMThreadID = threadID
		s.state.BlockingModalKind = ModalDM
	})
}

// SendDMReply appends the user's reply to a thread. Replying to a scam
// thread provokes the next escalating question after a short delay.
func (s *Session) SendDMReply(threadID, text string) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		idx := s.state.findThreadByID(threadID)
		if idx < 0 {
			return
		}
		if text == "" {
			text = "ok"
		}
		thread := &s.state.DMInbox[idx]
		thread.Messages = append(thread.Messages, DMMessage{Sender: "me", Text: text, TimeLabel: "now"})
		s.state.Counters.DMReplies++

		if thread.Scam {
			s.sched.After(tagDMFollowUp, time.Duration(s.trig.DMFollowUpDelayMs)*time.Millisecond, func() {
				s.fireDMFollowUp(threadID)
			})
		}
	})
}

// fireDMFollowUp delivers the scam contact's next question.
func (s *Session) fireDMFollowUp(threadID string) {
	s.mutate(func() {
		if s.state.Phase != PhasePlaying {
			return
		}
		idx := s.state.findThreadByID(threadID)
		if idx < 0 {
			return
		}
		thread := &s.state.DMInbox[idx]
		question := s.nextEscalationQuestionLocked(thread)
		thread.Messages = append(thread.Messages, DMMessage{Sender: "them", Text: question, TimeLabel: "now"})
		thread.Preview = question
	})
}
