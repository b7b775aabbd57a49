// internal/delivery/telegram/app/bot/handlers/instruction/handler.go
package instruction

import (
	"context"

	"crypto-signal-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-signal-bot/internal/delivery/telegram/app/bot/handlers/base"
)

type instructionHandler struct {
	*base.BaseHandler
}

// NewCommandHandler обработчик /instruction
func NewCommandHandler() handlers.Handler {
	return &instructionHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "instruction_command_handler",
			Command: constants.CommandInstruction,
			Type:    handlers.TypeCommand,
		},
	}
}

// NewButtonHandler обработчик кнопки "📋 Инструкция"
func NewButtonHandler() handlers.Handler {
	return &instructionHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "instruction_button_handler",
			Command: constants.ButtonTexts.Instruction,
			Type:    handlers.TypeButton,
		},
	}
}

// Execute отправляет инструкцию
func (h *instructionHandler) Execute(context.Context, handlers.HandlerParams) (handlers.HandlerResult, error) {
	return h.Reply(constants.KindInstruction, constants.InstructionMessage), nil
}
