package web

import (
	"time"

	"github.com/ericfisherdev/journeydemo/internal/application"
)

// AboutView is the data rendered by AboutPage.
type AboutView struct {
	Version   string
	Uptime    time.Duration
	Update    application.UpdateReport
	NotesHTML string
}
