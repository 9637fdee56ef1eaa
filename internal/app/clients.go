package app

import (
	"github.com/curalink/curalink-backend/internal/clients/clinicaltrials"
	"github.com/curalink/curalink-backend/internal/clients/openai"
	"github.com/curalink/curalink-backend/internal/clients/pubmed"
	"github.com/curalink/curalink-backend/internal/clients/sendgrid"
	"github.com/curalink/curalink-backend/internal/platform/logger"
	"github.com/curalink/curalink-backend/internal/realtime/bus"
)

type Clients struct {
	OpenAI         openai.Client
	SendGrid       sendgrid.Client
	PubMed         pubmed.Client
	ClinicalTrials clinicaltrials.Client
	Bus            bus.Bus
}

// wireClients builds the external integrations. The model, mail, and bus
// clients are optional: missing credentials degrade those features instead
// of blocking startup.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var c Clients

	if oc, err := openai.NewClient(log); err != nil {
		log.Warn("OpenAI client unavailable, assistant falls back to corpus", "error", err)
	} else {
		c.OpenAI = oc
	}

	if sg, err := sendgrid.NewFromEnv(log); err != nil {
		log.Warn("SendGrid client unavailable, email notifications disabled", "error", err)
	} else {
		c.SendGrid = sg
	}

	c.PubMed = pubmed.NewClient(log)
	c.ClinicalTrials = clinicaltrials.NewClient(log)

	if b, err := bus.NewRedisBus(log); err != nil {
		log.Warn("Redis unavailable, realtime events stay process-local", "error", err)
		c.Bus = bus.NewNoopBus()
	} else {
		c.Bus = b
	}

	return c
}
