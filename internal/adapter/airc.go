package adapter

import (
	"fmt"

	"github.com/harpproto/harp/internal/doc"
)

// AIRC event types.
const (
	AIRCFirstContact         = "first_contact"
	AIRCHandoff              = "handoff"
	AIRCConsentChange        = "consent_change"
	AIRCExtendedThread       = "extended_thread"
	AIRCCommunicationPattern = "communication_pattern"
)

var aircEventTypes = map[string]bool{
	AIRCFirstContact:         true,
	AIRCHandoff:              true,
	AIRCConsentChange:        true,
	AIRCExtendedThread:       true,
	AIRCCommunicationPattern: true,
}

// AIRC translates AIRC messaging events: first contacts, task handoffs,
// consent changes, and observed communication patterns.
type AIRC struct{}

var _ Adapter = AIRC{}

func (AIRC) Platform() string { return "airc" }

func (AIRC) Description() string {
	return "AIRC messaging: captures communication patterns, handoffs, and consent"
}

func (AIRC) Produces() []doc.SectionType {
	return []doc.SectionType{doc.SectionInteraction, doc.SectionContext, doc.SectionNote}
}

func (AIRC) CanHandle(eventType string) bool {
	return aircEventTypes[eventType]
}

func (a AIRC) Translate(e Event) []doc.Section {
	switch e.EventType {
	case AIRCFirstContact:
		content := "Initial communication established between entities via AIRC."
		if topic := payloadString(e.Payload, "topic"); topic != "" {
			content += fmt.Sprintf(" Topic: %s.", topic)
		}
		return []doc.Section{doc.NewSection(doc.SectionInteraction,
			"First contact via AIRC", content, a.meta(e, []string{"airc", "first-contact"}))}

	case AIRCHandoff:
		task := payloadString(e.Payload, "taskDescription")
		title := "Task handoff: Task transfer"
		if task != "" {
			title = "Task handoff: " + task
		}
		from := payloadString(e.Payload, "handoffFrom")
		if from == "" {
			from = string(e.Actor())
		}
		to := payloadString(e.Payload, "handoffTo")
		if to == "" && len(e.Entities) > 1 {
			to = string(e.Entities[1])
		}
		if task == "" {
			task = "Not specified."
		}
		content := fmt.Sprintf("%s handed off work to %s via AIRC.\n\nTask: %s", from, to, task)
		return []doc.Section{doc.NewSection(doc.SectionInteraction,
			title, content, a.meta(e, []string{"airc", "handoff"}))}

	case AIRCConsentChange:
		consent := payloadString(e.Payload, "consentType")
		state := " Communication channel open."
		if consent == "revoked" {
			state = " Communication channel closed."
		}
		tag := consent
		if tag == "" {
			tag = "change"
		}
		return []doc.Section{doc.NewSection(doc.SectionNote,
			fmt.Sprintf("Consent %s: AIRC communication", consent),
			fmt.Sprintf("AIRC consent %s between entities.%s", consent, state),
			a.meta(e, []string{"airc", "consent", tag}))}

	case AIRCExtendedThread:
		topic := payloadString(e.Payload, "topic")
		title := "Extended collaboration thread: ongoing work"
		onTopic := ""
		if topic != "" {
			title = "Extended collaboration thread: " + topic
			onTopic = fmt.Sprintf(" on %q", topic)
		}
		count := "many"
		if n, ok := payloadInt(e.Payload, "messageCount"); ok {
			count = fmt.Sprintf("%d", n)
		}
		duration := payloadString(e.Payload, "duration")
		if duration == "" {
			duration = "an extended period"
		}
		content := fmt.Sprintf("An extended AIRC thread%s with %s messages over %s.", onTopic, count, duration)
		return []doc.Section{doc.NewSection(doc.SectionInteraction,
			title, content, a.meta(e, []string{"airc", "collaboration", "thread"}))}

	case AIRCCommunicationPattern:
		content := payloadString(e.Payload, "communicationStyle")
		if content == "" {
			content = "Communication pattern detected from AIRC message history. See metadata for details."
		}
		meta := &doc.SectionMeta{
			Timestamp: e.Timestamp,
			Author:    "system",
			Tags:      []string{"airc", "communication", "pattern"},
			Platform:  "airc",
		}
		return []doc.Section{doc.NewSection(doc.SectionContext,
			"Communication pattern observed", content, meta)}
	}
	return nil
}

// meta builds the common metadata block, attaching a thread reference when
// the event carries one.
func (AIRC) meta(e Event, tags []string) *doc.SectionMeta {
	m := &doc.SectionMeta{
		Timestamp: e.Timestamp,
		Author:    e.Actor(),
		Tags:      tags,
		Platform:  "airc",
	}
	if threadID := payloadString(e.Payload, "threadId"); threadID != "" {
		m.References = []doc.Reference{{Type: "airc_thread", ID: threadID}}
	}
	return m
}
