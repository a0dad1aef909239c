package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	storex "github.com/brewhaven/voice-agents/agent/store"
)

const (
	ToolUpdateOrder    = "update_order"
	ToolSaveOrder      = "save_order"
	ToolGetOrderStatus = "get_order_status"
)

func baristaToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolUpdateOrder,
			Desc: "Update a field in the current coffee order. For extras, the value adds to the list.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"field": {Type: schema.String, Desc: "One of: drinkType, size, milk, extras, name", Required: true},
				"value": {Type: schema.String, Desc: "Value to set for the field", Required: true},
			}),
		},
		{
			Name: ToolSaveOrder,
			Desc: "Save the completed order. Call this when all required fields are filled.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolGetOrderStatus,
			Desc: "Get the current status of the order being taken.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
	}
}

func newBaristaExecutor(deps Deps) Executor {
	fallback := DefaultExecutor(contractx.AgentTypeBarista)
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolReply, error) {
		switch tool {
		case ToolUpdateOrder:
			return updateOrder(deps, args)
		case ToolSaveOrder:
			return saveOrder(ctx, deps)
		case ToolGetOrderStatus:
			return orderStatus(deps)
		default:
			return fallback(ctx, tool, args)
		}
	}
}

func updateOrder(deps Deps, args map[string]any) (contractx.ToolReply, error) {
	field := stringArg(args, "field", "")
	value := stringArg(args, "value", "")

	out := deps.Order.Update(field, value)
	if out.Unknown {
		return reply(ToolUpdateOrder, fmt.Sprintf("Unknown field: %s", field))
	}

	log.Info().Str("field", out.Field.String()).Str("value", value).Msg("order updated")

	if out.Complete() {
		return reply(ToolUpdateOrder, "Order complete! All required fields are filled. Please use save_order to finalize.")
	}
	return reply(ToolUpdateOrder, fmt.Sprintf("Order updated. Still need: %s", strings.Join(out.Missing, ", ")))
}

func saveOrder(ctx context.Context, deps Deps) (contractx.ToolReply, error) {
	if missing := deps.Order.MissingFields(); len(missing) > 0 {
		return reply(ToolSaveOrder, fmt.Sprintf("Cannot save order yet. Still need: %s", strings.Join(missing, ", ")))
	}

	snapshot := deps.Order.Snapshot()
	rec := storex.OrderRecord{
		Order:     snapshot,
		Timestamp: deps.now().Format(time.RFC3339),
		Status:    storex.StatusCompleted,
	}
	if err := deps.Orders.Append(ctx, rec); err != nil {
		log.Error().Err(err).Msg("order save failed")
		return reply(ToolSaveOrder, "I couldn't save the order just now. Give me a moment and ask me to save it again.")
	}

	deps.Order.Reset()

	extras := "none"
	if len(snapshot.Extras) > 0 {
		extras = strings.Join(snapshot.Extras, ", ")
	}
	return reply(ToolSaveOrder, fmt.Sprintf(
		"Order saved successfully! Order for %s: a %s %s with %s milk, extras: %s.",
		snapshot.Name, snapshot.Size, snapshot.DrinkType, snapshot.Milk, extras))
}

func orderStatus(deps Deps) (contractx.ToolReply, error) {
	o := deps.Order
	orNotSet := func(s string) string {
		if s == "" {
			return "not set"
		}
		return s
	}
	extras := "none yet"
	if len(o.Extras) > 0 {
		extras = strings.Join(o.Extras, ", ")
	}
	missing := "none - order ready to save!"
	if m := o.MissingFields(); len(m) > 0 {
		missing = strings.Join(m, ", ")
	}

	return reply(ToolGetOrderStatus, fmt.Sprintf(
		"Current order: drink %s, size %s, milk %s, extras %s, name %s. Missing: %s",
		orNotSet(o.DrinkType), orNotSet(o.Size), orNotSet(o.Milk), extras, orNotSet(o.Name), missing))
}
