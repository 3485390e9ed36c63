package dummymail

import (
	"log"
	"sync"

	"github.com/darasahq/darasa/core"
)

// service collects rendered messages in memory; tests inspect SentMessages.
type service struct {
	mu sync.Mutex
}

var SentMessages = make([]core.EmailMessage, 0)

var _ core.EmailService = (*service)(nil)

func NewService() core.EmailService {
	return &service{}
}

func (svc *service) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, msg := range messages {
		if err := msg.Render(); err != nil {
			log.Fatal(err)
		}
		if msg.HasRecipients() && (msg.HasContent() || msg.HasAttachments()) {
			SentMessages = append(SentMessages, *msg)
		}
	}
}

// Reset clears collected messages between tests.
func Reset() {
	SentMessages = SentMessages[:0]
}
