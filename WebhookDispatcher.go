package main

import (
	"bytes"
	json "github.com/bytedance/sonic"
	"gridSheet/contracts"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

type SheetWebhooks map[string]string

type WebhookSendCommand struct {
	SheetId string
	Webhook string
	Cell    *contracts.Cell
}

// WebhookDispatcher posts changed cells to the URL subscribed for them. Sheet
// and cell ids are expected in canonical form.
type WebhookDispatcher struct {
	workersCount int
	timeout      time.Duration
	logger       *slog.Logger

	webhooksMutex sync.RWMutex
	webhooks      map[string]SheetWebhooks

	queueMutex sync.RWMutex
	queue      chan WebhookSendCommand
	closed     bool
	workers    sync.WaitGroup
}

func NewWebhookDispatcher(workersCount int, queueSize int, timeout time.Duration, logger *slog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		workersCount: workersCount,
		timeout:      timeout,
		logger:       logger,
		webhooks:     map[string]SheetWebhooks{},
		queue:        make(chan WebhookSendCommand, queueSize),
	}
}

func (manager *WebhookDispatcher) SetWebhookUrl(sheetId string, cellId string, webhookUrl string) {
	manager.webhooksMutex.Lock()
	defer manager.webhooksMutex.Unlock()

	if webhookUrl == "" {
		delete(manager.webhooks[sheetId], cellId)
		if len(manager.webhooks[sheetId]) == 0 {
			delete(manager.webhooks, sheetId)
		}
		return
	}

	if _, ok := manager.webhooks[sheetId]; !ok {
		manager.webhooks[sheetId] = SheetWebhooks{}
	}
	manager.webhooks[sheetId][cellId] = webhookUrl
}

func (manager *WebhookDispatcher) GetWebhookUrl(sheetId string, cellId string) string {
	manager.webhooksMutex.RLock()
	defer manager.webhooksMutex.RUnlock()

	return manager.webhooks[sheetId][cellId]
}

// Notify never blocks the caller: matching commands are queued from a
// separate goroutine.
func (manager *WebhookDispatcher) Notify(sheetId string, cells []*contracts.Cell) {
	commands := manager.collectCommands(sheetId, cells)
	if len(commands) == 0 {
		return
	}

	go manager.addToQueue(commands)
}

func (manager *WebhookDispatcher) collectCommands(sheetId string, cells []*contracts.Cell) []WebhookSendCommand {
	manager.webhooksMutex.RLock()
	defer manager.webhooksMutex.RUnlock()

	sheetWebhooks, ok := manager.webhooks[sheetId]
	if !ok {
		return nil
	}

	commands := make([]WebhookSendCommand, 0, len(cells))
	for _, cell := range cells {
		if webhook, ok := sheetWebhooks[cell.Address]; ok {
			commands = append(commands, WebhookSendCommand{
				SheetId: sheetId,
				Webhook: webhook,
				Cell:    cell,
			})
		}
	}
	return commands
}

func (manager *WebhookDispatcher) addToQueue(commands []WebhookSendCommand) {
	manager.queueMutex.RLock()
	defer manager.queueMutex.RUnlock()

	if manager.closed {
		return
	}

	for _, command := range commands {
		manager.queue <- command
	}
}

func (manager *WebhookDispatcher) Start() {
	for i := 0; i < manager.workersCount; i++ {
		manager.workers.Add(1)
		go manager.runWebhookSenderWorker()
	}
}

// Close stops accepting commands and waits until queued ones are sent
func (manager *WebhookDispatcher) Close() {
	manager.queueMutex.Lock()
	if !manager.closed {
		manager.closed = true
		close(manager.queue)
	}
	manager.queueMutex.Unlock()

	manager.workers.Wait()
}

func (manager *WebhookDispatcher) runWebhookSenderWorker() {
	defer manager.workers.Done()

	client := &http.Client{
		Timeout: manager.timeout,
	}

	for command := range manager.queue {
		manager.send(client, command)
	}
}

func (manager *WebhookDispatcher) send(client *http.Client, command WebhookSendCommand) {
	logger := manager.logger.With("sheet_id", command.SheetId, "cell_id", command.Cell.Address, "webhook", command.Webhook)

	payload, err := json.Marshal(command.Cell)
	if err != nil {
		logger.Error("webhook payload encode error", "error", err)
		return
	}

	response, err := client.Post(command.Webhook, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		logger.Warn("webhook send error", "error", err)
		return
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		logger.Warn("unexpected webhook response", "status", response.Status)
		return
	}
	logger.Debug("webhook sent")
}
