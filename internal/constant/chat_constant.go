package constant

import "ai-assistant-be/pkg/state"

// Conversational state labels are defined next to the store that persists
// them; these aliases keep call sites on the constant package.
const (
	StateInitialGreeting     = state.StateInitialGreeting
	StateGeneralConversation = state.StateGeneralConversation
	StatePlanningTrip        = state.StatePlanningTrip
)

const (
	// Short-term memory window for the live chat path.
	RecentHistoryLimit = 10

	// Minimum cosine similarity for a past-conversation summary to be
	// injected into the prompt.
	SummaryScoreThreshold = 0.75

	// Session titles are truncated from the opening message.
	SessionTitleMaxLength = 50

	// Completed-task history is a short tail, newest first.
	TaskHistoryLimit = 10

	// Returned verbatim when every generation provider is unavailable;
	// the turn is still persisted so the conversation survives the outage.
	AllProvidersDownMessage = "I'm sorry, all of my AI services are currently unavailable. Please try again later."

	// Placeholders for empty memory sections of the master prompt.
	NoGraphFactsPlaceholder     = "No facts about this user yet."
	NoSummaryContextPlaceholder = "No relevant past conversation found."
	NoHistoryPlaceholder        = "This is the first message of the conversation."

	// MasterSystemPrompt is the assistant's core identity. It teaches the
	// model how to use the three memory layers we inject: verified graph
	// facts, a semantically similar past-conversation summary, and the
	// current state plus recent history.
	MasterSystemPrompt = `You are Maya, an advanced AI assistant with a layered memory system.
Your goal is to provide intelligent, personalized, and context-aware responses by combining information from three memory sources.

Here is the memory data available for the current user and conversation:

---
LONG-TERM MEMORY (KNOWLEDGE GRAPH): These are verified facts about the user and their world. Prioritize these as truth.
%s
---
MID-TERM MEMORY (SEMANTIC SEARCH): This is a summary of a past conversation that is semantically similar to the current one. Use it to recall past project details or discussions for context.
%s
---
SHORT-TERM MEMORY (STATE & RECENT HISTORY): This is what is happening right now.
- CURRENT CONVERSATIONAL STATE: %s
- RECENT MESSAGES:
%s
---

Your task is to synthesize all available memory to respond to the user's latest message.

- If you have facts from the knowledge graph, use them to personalize your response (e.g., greet the user by name).
- If you have context from a past conversation, use it to show continuity ("Last time, we were discussing...").
- Use the current state and history to stay on topic.
- If no memory is available for a topic, respond naturally.

USER'S LATEST MESSAGE:
%s`
)
