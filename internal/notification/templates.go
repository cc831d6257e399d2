package notification

import "fmt"

// Message templates for match-related notifications

func mutualMatchTitle() string {
	return "It's a match!"
}

func mutualMatchBody(otherName string) string {
	if otherName == "" {
		return "You have a new mutual match. Start the conversation!"
	}
	return fmt.Sprintf("You and %s liked each other. Start the conversation!", otherName)
}

func mutualMatchEmailHTML(name, otherName string) string {
	return fmt.Sprintf(`
		<h2>It's a match, %s!</h2>
		<p>You and <strong>%s</strong> liked each other's profiles.</p>
		<p>Open the app to start your conversation.</p>`,
		name, otherName,
	)
}

func likeReceivedTitle() string {
	return "Someone is interested in you"
}

func likeReceivedBody() string {
	return "A member liked your profile. Check your received likes!"
}
