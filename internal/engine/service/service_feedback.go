// Copyright 2025 Verdict Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/**
 * @file: service_feedback.go
 * @description: feedback orchestration: token fan-out on assignment, the
 *               submission pipeline, reminders, and alert routing. Delivery
 *               failures never roll back a state change that already happened.
 */

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-verdict/verdict/internal/engine/model"
	"github.com/go-verdict/verdict/internal/engine/repo"
	"github.com/go-verdict/verdict/internal/pkg/notify"
	"github.com/go-verdict/verdict/internal/pkg/queue"
	"github.com/go-verdict/verdict/pkg/id"
	"github.com/go-verdict/verdict/pkg/log"
	"github.com/go-verdict/verdict/pkg/statemachine"
)

// NotificationEnqueuer hands alerts to the delivery queue
type NotificationEnqueuer interface {
	Enqueue(payload *queue.NotificationPayload) error
}

// FeedbackService drives the feedback collection workflow.
type FeedbackService struct {
	committeeSvc *CommitteeService
	tokenSvc     *TokenService
	committees   repo.ICommitteeRepository
	applications repo.IApplicationRepository
	feedbacks    repo.IFeedbackRepository
	tokens       repo.IFeedbackTokenRepository
	resolver     *notify.Resolver
	enqueuer     NotificationEnqueuer
}

// NewFeedbackService creates the feedback orchestrator
func NewFeedbackService(
	committeeSvc *CommitteeService,
	tokenSvc *TokenService,
	committees repo.ICommitteeRepository,
	applications repo.IApplicationRepository,
	feedbacks repo.IFeedbackRepository,
	tokens repo.IFeedbackTokenRepository,
	resolver *notify.Resolver,
	enqueuer NotificationEnqueuer,
) *FeedbackService {
	return &FeedbackService{
		committeeSvc: committeeSvc,
		tokenSvc:     tokenSvc,
		committees:   committees,
		applications: applications,
		feedbacks:    feedbacks,
		tokens:       tokens,
		resolver:     resolver,
		enqueuer:     enqueuer,
	}
}

// AssignFromTemplate creates the committee and starts feedback collection
func (fs *FeedbackService) AssignFromTemplate(ctx context.Context, actor string, req *model.AssignFromTemplateReq) (*model.CommitteeInstance, error) {
	instance, err := fs.committeeSvc.AssignFromTemplate(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	return instance, fs.activate(ctx, instance)
}

// AssignCustom creates an ad hoc committee and starts feedback collection
func (fs *FeedbackService) AssignCustom(ctx context.Context, actor string, req *model.AssignCustomReq) (*model.CommitteeInstance, error) {
	instance, err := fs.committeeSvc.AssignCustom(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	return instance, fs.activate(ctx, instance)
}

// activate issues one token per member, notifies everyone, and moves the
// committee to active. A member whose email bounces stays pending; the
// committee activates regardless.
func (fs *FeedbackService) activate(ctx context.Context, instance *model.CommitteeInstance) error {
	app, err := fs.applications.GetApplicationByID(ctx, instance.AppId)
	if err != nil {
		return err
	}

	for _, member := range instance.Members {
		token, err := fs.tokenSvc.Issue(ctx, instance.CommitteeId, member.MemberId, instance.Deadline)
		if err != nil {
			log.Errorw("token issue failed", "memberId", member.MemberId, "error", err)
			continue
		}
		fs.notifyMember(member, model.AlertCommitteeAssigned,
			fmt.Sprintf("Feedback requested: %s (%s)", app.CandidateName, app.Position),
			fmt.Sprintf("Hello %s,\n\nYou have been assigned to the hiring committee for %s (%s, %s).\nPlease submit your feedback by %s:\n\n%s\n",
				member.Name, app.CandidateName, app.Position, app.Department,
				instance.Deadline.Format("2006-01-02"), fs.tokenSvc.FeedbackURL(token.Token)),
			fs.eventContext(app, instance))
	}

	fs.notifyByRule(ctx, model.AlertCommitteeAssigned, app, instance, false)

	if err := fs.committeeSvc.MarkActive(ctx, instance.CommitteeId); err != nil {
		return err
	}
	instance.Status = string(statemachine.CommitteeActive)
	return nil
}

// VerifyToken gates the public feedback form, returning the rendering context
func (fs *FeedbackService) VerifyToken(ctx context.Context, raw string) (*model.FeedbackContext, error) {
	token, err := fs.tokenSvc.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}

	member, err := fs.committees.GetMemberByID(ctx, token.MemberId)
	if err != nil {
		return nil, err
	}
	instance, err := fs.committees.GetByCommitteeID(ctx, token.CommitteeId)
	if err != nil {
		return nil, err
	}
	app, err := fs.applications.GetApplicationByID(ctx, instance.AppId)
	if err != nil {
		return nil, err
	}

	return &model.FeedbackContext{
		CandidateName: app.CandidateName,
		Position:      app.Position,
		Department:    app.Department,
		ReviewerName:  member.Name,
		ReviewerEmail: member.Email,
		Deadline:      instance.Deadline,
	}, nil
}

// SubmitFeedback runs the submission pipeline: token check, payload
// validation, immutable write, token burn, aggregate recompute, completion.
func (fs *FeedbackService) SubmitFeedback(ctx context.Context, req *model.SubmitFeedbackReq) (*model.Feedback, error) {
	if req == nil || req.Token == "" {
		return nil, validationErr("token is required")
	}

	token, err := fs.tokenSvc.Verify(ctx, req.Token)
	if err != nil {
		feedbackSubmissions.WithLabelValues("rejected_token").Inc()
		return nil, err
	}
	if err := validateSubmission(req); err != nil {
		feedbackSubmissions.WithLabelValues("rejected_payload").Inc()
		return nil, err
	}

	member, err := fs.committees.GetMemberByID(ctx, token.MemberId)
	if err != nil {
		return nil, err
	}
	instance, err := fs.committees.GetByCommitteeID(ctx, token.CommitteeId)
	if err != nil {
		return nil, err
	}
	if !instance.CommitteeStatus().IsLive() {
		feedbackSubmissions.WithLabelValues("rejected_state").Inc()
		return nil, ErrCommitteeNotLive
	}

	feedback := &model.Feedback{
		FeedbackId:     id.GetUUIDWithoutDashes(),
		CommitteeId:    token.CommitteeId,
		MemberId:       token.MemberId,
		ReviewerName:   member.Name,
		ReviewerEmail:  member.Email,
		ReviewerRole:   member.Role,
		TechnicalNotes: req.TechnicalNotes,
		Strengths:      req.Strengths,
		Weaknesses:     req.Weaknesses,
		Recommendation: req.Recommendation,
		OverallScore:   req.OverallScore,
		SubmittedAt:    time.Now(),
	}
	// the unique index on member_id catches the race the token CAS below
	// would otherwise let through as a duplicate row
	if err := fs.feedbacks.CreateFeedback(ctx, feedback); err != nil {
		feedbackSubmissions.WithLabelValues("rejected_duplicate").Inc()
		return nil, ErrTokenAlreadyUsed
	}
	if err := fs.tokenSvc.Consume(ctx, token.TokenId); err != nil {
		return nil, err
	}
	if err := fs.committees.UpdateMemberStatus(ctx, token.MemberId, model.MemberSubmitted); err != nil {
		log.Errorw("failed to mark member submitted", "memberId", token.MemberId, "error", err)
	}

	agg, complete, err := fs.committeeSvc.Recompute(ctx, token.CommitteeId)
	if err != nil {
		log.Errorw("aggregate recompute failed", "committeeId", token.CommitteeId, "error", err)
	}

	app, appErr := fs.applications.GetApplicationByID(ctx, instance.AppId)
	if appErr == nil {
		fs.notifyByRule(ctx, model.AlertFeedbackReceived, app, instance, false)
	}

	if complete {
		if err := fs.committeeSvc.MarkCompleted(ctx, token.CommitteeId); err != nil {
			log.Errorw("failed to mark committee completed", "committeeId", token.CommitteeId, "error", err)
		} else if appErr == nil {
			fs.notifyDecisionReady(ctx, app, instance, agg.FinalRecommendation)
		}
	}

	feedbackSubmissions.WithLabelValues("accepted").Inc()
	return feedback, nil
}

// SendReminders re-sends the existing unexpired token link to every pending
// member of a live committee and returns how many went out.
func (fs *FeedbackService) SendReminders(ctx context.Context, committeeID string) (int, error) {
	instance, err := fs.committees.GetByCommitteeID(ctx, committeeID)
	if err != nil {
		if repo.IsNotFound(err) {
			return 0, ErrCommitteeNotFound
		}
		return 0, err
	}
	if !instance.CommitteeStatus().IsLive() {
		return 0, nil
	}

	app, err := fs.applications.GetApplicationByID(ctx, instance.AppId)
	if err != nil {
		return 0, err
	}

	sent := 0
	now := time.Now()
	for _, member := range instance.Members {
		if member.Status != model.MemberPending {
			continue
		}
		token, err := fs.tokens.GetOutstandingByMember(ctx, member.MemberId)
		if err != nil {
			if !repo.IsNotFound(err) {
				log.Errorw("reminder token lookup failed", "memberId", member.MemberId, "error", err)
			}
			continue
		}
		if token.IsExpired(now) {
			continue
		}

		fs.notifyMember(member, model.AlertFeedbackReminder,
			fmt.Sprintf("Reminder: feedback due for %s", app.CandidateName),
			fmt.Sprintf("Hello %s,\n\nYour feedback for %s (%s) is still outstanding, due %s:\n\n%s\n",
				member.Name, app.CandidateName, app.Position,
				instance.Deadline.Format("2006-01-02"), fs.tokenSvc.FeedbackURL(token.Token)),
			fs.eventContext(app, instance))
		remindersSent.Inc()
		sent++
	}
	return sent, nil
}

// ResendToken reissues a member's feedback link. force bypasses the daily
// resend cap for staff-initiated resends.
func (fs *FeedbackService) ResendToken(ctx context.Context, actor, committeeID, memberID string, force bool) error {
	instance, err := fs.committees.GetByCommitteeID(ctx, committeeID)
	if err != nil {
		if repo.IsNotFound(err) {
			return ErrCommitteeNotFound
		}
		return err
	}
	if !instance.CommitteeStatus().IsLive() {
		return ErrCommitteeNotLive
	}

	member, err := fs.committees.GetMemberByID(ctx, memberID)
	if err != nil || member.CommitteeId != committeeID {
		return ErrMemberNotFound
	}
	if member.Status == model.MemberSubmitted {
		return validationErr("member %s already submitted feedback", memberID)
	}

	token, err := fs.tokenSvc.Reissue(ctx, committeeID, memberID, instance.Deadline, force)
	if err != nil {
		return err
	}
	if err := fs.committees.AppendAuditNote(ctx, &model.CommitteeAuditNote{
		CommitteeId: committeeID,
		ActorId:     actor,
		Note:        fmt.Sprintf("feedback link resent to member %s", memberID),
	}); err != nil {
		log.Errorw("failed to append audit note", "committeeId", committeeID, "error", err)
	}

	app, err := fs.applications.GetApplicationByID(ctx, instance.AppId)
	if err != nil {
		return err
	}
	fs.notifyMember(member, model.AlertCommitteeAssigned,
		fmt.Sprintf("New feedback link: %s (%s)", app.CandidateName, app.Position),
		fmt.Sprintf("Hello %s,\n\nHere is your new feedback link for %s (%s), due %s:\n\n%s\n",
			member.Name, app.CandidateName, app.Position,
			instance.Deadline.Format("2006-01-02"), fs.tokenSvc.FeedbackURL(token.Token)),
		fs.eventContext(app, instance))
	return nil
}

// AddMember adds a reviewer to a live committee and sends their feedback link
func (fs *FeedbackService) AddMember(ctx context.Context, actor, committeeID string, req *model.MemberReq) (*model.CommitteeMember, error) {
	member, err := fs.committeeSvc.AddMember(ctx, actor, committeeID, req)
	if err != nil {
		return nil, err
	}

	instance, err := fs.committees.GetByCommitteeID(ctx, committeeID)
	if err != nil {
		return member, err
	}
	token, err := fs.tokenSvc.Issue(ctx, committeeID, member.MemberId, instance.Deadline)
	if err != nil {
		log.Errorw("token issue for added member failed", "memberId", member.MemberId, "error", err)
		return member, nil
	}

	app, err := fs.applications.GetApplicationByID(ctx, instance.AppId)
	if err != nil {
		return member, nil
	}
	fs.notifyMember(member, model.AlertCommitteeAssigned,
		fmt.Sprintf("Feedback requested: %s (%s)", app.CandidateName, app.Position),
		fmt.Sprintf("Hello %s,\n\nYou have been added to the hiring committee for %s (%s).\nPlease submit your feedback by %s:\n\n%s\n",
			member.Name, app.CandidateName, app.Position,
			instance.Deadline.Format("2006-01-02"), fs.tokenSvc.FeedbackURL(token.Token)),
		fs.eventContext(app, instance))
	return member, nil
}

// RemoveMember drops a reviewer and kills their outstanding token
func (fs *FeedbackService) RemoveMember(ctx context.Context, actor, committeeID, memberID string) error {
	if err := fs.committeeSvc.RemoveMember(ctx, actor, committeeID, memberID); err != nil {
		return err
	}
	if err := fs.tokens.ExpireForMember(ctx, memberID); err != nil {
		log.Errorw("failed to expire tokens of removed member", "memberId", memberID, "error", err)
	}
	return nil
}

// CancelCommittee cancels the committee, kills every outstanding token, and
// tells the roster collection stopped
func (fs *FeedbackService) CancelCommittee(ctx context.Context, actor, committeeID, reason string) (*model.CommitteeInstance, error) {
	// a repeat cancel is a no-op, the roster is not told twice
	if current, err := fs.committees.GetByCommitteeID(ctx, committeeID); err == nil &&
		current.CommitteeStatus() == statemachine.CommitteeCancelled {
		return current, nil
	}

	instance, err := fs.committeeSvc.Cancel(ctx, actor, committeeID, reason)
	if err != nil {
		return nil, err
	}

	if err := fs.tokens.ExpireAllForCommittee(ctx, committeeID); err != nil {
		log.Errorw("failed to expire committee tokens", "committeeId", committeeID, "error", err)
	}

	app, err := fs.applications.GetApplicationByID(ctx, instance.AppId)
	if err != nil {
		return instance, nil
	}
	for _, member := range instance.Members {
		if member.Status != model.MemberPending {
			continue
		}
		fs.notifyMember(member, model.AlertCommitteeCancelled,
			fmt.Sprintf("Committee cancelled: %s", app.CandidateName),
			fmt.Sprintf("Hello %s,\n\nThe hiring committee for %s (%s) was cancelled. No feedback is needed.\nReason: %s\n",
				member.Name, app.CandidateName, app.Position, reason),
			fs.eventContext(app, instance))
	}
	fs.notifyByRule(ctx, model.AlertCommitteeCancelled, app, instance, false)
	return instance, nil
}

func (fs *FeedbackService) notifyDecisionReady(ctx context.Context, app *model.Application, instance *model.CommitteeInstance, recommendation string) {
	ev := notify.Event{
		AlertType: model.AlertDecisionReady,
		Context:   fs.eventContext(app, instance),
		Roster:    rosterOf(instance),
	}
	recipients, err := fs.resolver.Resolve(ctx, ev)
	if err != nil {
		log.Errorw("decision_ready recipient resolution failed", "committeeId", instance.CommitteeId, "error", err)
		return
	}
	for _, rcpt := range recipients {
		fs.enqueue(&queue.NotificationPayload{
			AlertType:      model.AlertDecisionReady,
			RecipientName:  rcpt.Name,
			RecipientEmail: rcpt.Email,
			Subject:        fmt.Sprintf("Decision ready: %s (%s)", app.CandidateName, app.Position),
			Body: fmt.Sprintf("All required feedback for %s (%s) is in.\nFinal recommendation: %s\n",
				app.CandidateName, app.Position, recommendation),
			Data: fs.eventContext(app, instance),
		})
	}
}

// notifyByRule routes an alert to the committee roster plus the staff roles
// its rule names; the resolver dedups a member who is also rule staff
func (fs *FeedbackService) notifyByRule(ctx context.Context, alertType string, app *model.Application, instance *model.CommitteeInstance, override bool) {
	recipients, err := fs.resolver.Resolve(ctx, notify.Event{
		AlertType: alertType,
		Context:   fs.eventContext(app, instance),
		Roster:    rosterOf(instance),
		Override:  override,
	})
	if err != nil {
		log.Errorw("recipient resolution failed", "alertType", alertType, "error", err)
		return
	}
	for _, rcpt := range recipients {
		fs.enqueue(&queue.NotificationPayload{
			AlertType:      alertType,
			RecipientName:  rcpt.Name,
			RecipientEmail: rcpt.Email,
			Subject:        fmt.Sprintf("[%s] %s (%s)", alertType, app.CandidateName, app.Position),
			Body: fmt.Sprintf("Committee update for %s (%s): %s\n",
				app.CandidateName, app.Position, alertType),
			Data: fs.eventContext(app, instance),
		})
	}
}

func (fs *FeedbackService) notifyMember(member *model.CommitteeMember, alertType, subject, body string, data map[string]interface{}) {
	fs.enqueue(&queue.NotificationPayload{
		AlertType:      alertType,
		RecipientName:  member.Name,
		RecipientEmail: member.Email,
		Subject:        subject,
		Body:           body,
		Data:           data,
	})
}

func (fs *FeedbackService) enqueue(payload *queue.NotificationPayload) {
	if err := fs.enqueuer.Enqueue(payload); err != nil {
		log.Errorw("notification enqueue failed",
			"alertType", payload.AlertType,
			"recipient", payload.RecipientEmail,
			"error", err,
		)
	}
}

// rosterOf maps the committee members to recipient candidates
func rosterOf(instance *model.CommitteeInstance) []notify.Recipient {
	roster := make([]notify.Recipient, 0, len(instance.Members))
	for _, member := range instance.Members {
		roster = append(roster, notify.Recipient{
			UserId: member.ReviewerId,
			Name:   member.Name,
			Email:  member.Email,
			Role:   member.Role,
		})
	}
	return roster
}

func (fs *FeedbackService) eventContext(app *model.Application, instance *model.CommitteeInstance) map[string]interface{} {
	return map[string]interface{}{
		"committee_id":   instance.CommitteeId,
		"app_id":         app.AppId,
		"candidate_name": app.CandidateName,
		"position":       app.Position,
		"department":     app.Department,
		"status":         instance.Status,
	}
}

func validateSubmission(req *model.SubmitFeedbackReq) error {
	if req.TechnicalNotes == "" {
		return validationErr("technicalNotes is required")
	}
	if !model.ValidRecommendation(req.Recommendation) {
		return validationErr("unknown recommendation %q", req.Recommendation)
	}
	if req.OverallScore < 1 || req.OverallScore > 10 {
		return validationErr("overallScore must be between 1 and 10")
	}
	return nil
}
