package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/angelmondragon/webtheme-backend/internal/theme"
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// Op names one draft edit.
type Op string

const (
	OpUpdateTicker Op = "update_ticker"

	OpAddBar    Op = "add_bar"
	OpRemoveBar Op = "remove_bar"
	OpUpdateBar Op = "update_bar"

	OpAddList         Op = "add_list"
	OpRemoveList      Op = "remove_list"
	OpSetListPosition Op = "set_list_position"

	OpAddItem        Op = "add_item"
	OpRemoveItem     Op = "remove_item"
	OpUpdateItem     Op = "update_item"
	OpToggleSubLinks Op = "toggle_sub_links"
	OpSetCustomHTML  Op = "set_custom_html"

	OpAddSubLink    Op = "add_sub_link"
	OpRemoveSubLink Op = "remove_sub_link"
	OpUpdateSubLink Op = "update_sub_link"

	OpToggleInnerSubLinks Op = "toggle_inner_sub_links"
	OpAddInnerSubLink     Op = "add_inner_sub_link"
	OpRemoveInnerSubLink  Op = "remove_inner_sub_link"
	OpUpdateInnerSubLink  Op = "update_inner_sub_link"

	OpAddSection    Op = "add_section"
	OpRemoveSection Op = "remove_section"
	OpUpdateSection Op = "update_section"
	OpMoveSection   Op = "move_section"

	OpSetLayoutSetting  Op = "set_layout_setting"
	OpAddCardItem       Op = "add_card_item"
	OpRemoveCardItem    Op = "remove_card_item"
	OpUpdateCardSetting Op = "update_card_setting"

	OpSelect Op = "select"
)

// Command is one JSON-encoded edit. Which reference fields are required
// depends on Op.
type Command struct {
	Op         Op     `json:"op" validate:"required"`
	BarID      string `json:"bar_id,omitempty" validate:"max=64"`
	ListID     string `json:"list_id,omitempty" validate:"max=64"`
	ItemID     string `json:"item_id,omitempty" validate:"max=64"`
	SubLinkID  string `json:"sub_link_id,omitempty" validate:"max=64"`
	InnerID    string `json:"inner_id,omitempty" validate:"max=64"`
	SectionKey *int   `json:"section_key,omitempty" validate:"omitempty,min=0"`
	CardKey    string `json:"card_key,omitempty" validate:"max=64"`
	Kind       string `json:"kind,omitempty" validate:"max=32"`
	Field      string `json:"field,omitempty" validate:"max=64"`
	Name       string `json:"name,omitempty" validate:"max=128"`
	From       *int   `json:"from,omitempty" validate:"omitempty,min=0"`
	To         *int   `json:"to,omitempty" validate:"omitempty,min=0"`
	Enabled    *bool  `json:"enabled,omitempty"`
	Value      any    `json:"value,omitempty"`
}

var (
	itemPath    = []string{"bar_id", "list_id", "item_id"}
	subLinkPath = append(append([]string{}, itemPath...), "sub_link_id")
)

// opRequirements lists the fields each op needs.
var opRequirements = map[Op][]string{
	OpUpdateTicker: {"field"},

	OpAddBar:    nil,
	OpRemoveBar: {"bar_id"},
	OpUpdateBar: {"bar_id", "field"},

	OpAddList:         {"bar_id"},
	OpRemoveList:      {"bar_id", "list_id"},
	OpSetListPosition: {"bar_id", "list_id", "value"},

	OpAddItem:        {"bar_id", "list_id"},
	OpRemoveItem:     itemPath,
	OpUpdateItem:     append(append([]string{}, itemPath...), "field"),
	OpToggleSubLinks: append(append([]string{}, itemPath...), "enabled"),
	OpSetCustomHTML:  append(append([]string{}, itemPath...), "enabled"),

	OpAddSubLink:    itemPath,
	OpRemoveSubLink: subLinkPath,
	OpUpdateSubLink: append(append([]string{}, subLinkPath...), "field"),

	OpToggleInnerSubLinks: append(append([]string{}, subLinkPath...), "enabled"),
	OpAddInnerSubLink:     subLinkPath,
	OpRemoveInnerSubLink:  append(append([]string{}, subLinkPath...), "inner_id"),
	OpUpdateInnerSubLink:  append(append([]string{}, subLinkPath...), "inner_id", "field"),

	OpAddSection:    {"kind"},
	OpRemoveSection: {"section_key"},
	OpUpdateSection: {"section_key", "field"},
	OpMoveSection:   {"from", "to"},

	OpSetLayoutSetting:  {"name", "value"},
	OpAddCardItem:       {"kind"},
	OpRemoveCardItem:    {"card_key"},
	OpUpdateCardSetting: {"card_key", "name", "value"},

	OpSelect: nil,
}

func fieldSet[T ~string](values ...T) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[string(v)] = struct{}{}
	}
	return out
}

// opFields lists the accepted "field" values of the update ops.
var opFields = map[Op]map[string]struct{}{
	OpUpdateTicker: fieldSet(
		theme.TickerFieldEnabled, theme.TickerFieldSticky, theme.TickerFieldBackgroundColor,
		theme.TickerFieldTextColor, theme.TickerFieldText,
	),
	OpUpdateBar: fieldSet(
		theme.BarFieldVisible, theme.BarFieldSticky, theme.BarFieldTransparent,
		theme.BarFieldUseContainer, theme.BarFieldHighlightActiveLink, theme.BarFieldHeight,
		theme.BarFieldBorderTop, theme.BarFieldBorderBottom, theme.BarFieldMargin,
		theme.BarFieldPadding, theme.BarFieldBackgroundColor,
	),
	OpUpdateItem: fieldSet(
		theme.ItemFieldKind, theme.ItemFieldLabel, theme.ItemFieldColor, theme.ItemFieldRoute,
		theme.ItemFieldBackgroundColor, theme.ItemFieldBorderRadius, theme.ItemFieldMargin,
		theme.ItemFieldPadding, theme.ItemFieldBorder, theme.ItemFieldBorderLeft,
		theme.ItemFieldFontSize, theme.ItemFieldFontWeight, theme.ItemFieldExtraClass,
		theme.ItemFieldExtraAttribute, theme.ItemFieldOpenInNewTab, theme.ItemFieldPlaceholder,
		theme.ItemFieldWidth, theme.ItemFieldBorderBottom, theme.ItemFieldShowPrice,
		theme.ItemFieldPriceLabelColor, theme.ItemFieldCountBadgePosition,
		theme.ItemFieldCountBadgeColor, theme.ItemFieldIsCurrentLocation,
		theme.ItemFieldLogoImage, theme.ItemFieldLogoWidth,
	),
	OpUpdateSubLink: fieldSet(theme.SubLinkFieldIcon, theme.SubLinkFieldLabel, theme.SubLinkFieldRoute),
	OpUpdateInnerSubLink: fieldSet(
		theme.InnerSubLinkFieldLabel, theme.InnerSubLinkFieldRoute,
	),
	OpUpdateSection: fieldSet(
		theme.SectionFieldKind, theme.SectionFieldStatus, theme.SectionFieldPlatform,
		theme.SectionFieldAppName, theme.SectionFieldImageURL, theme.SectionFieldRedirectURL,
		theme.SectionFieldContent, theme.SectionFieldName, theme.SectionFieldCardsPerRow,
		theme.SectionFieldTabs, theme.SectionFieldSlider, theme.SectionFieldViewAll,
		theme.SectionFieldDesignAsShop, theme.SectionFieldProducts,
		theme.SectionFieldSelectedItems, theme.SectionFieldHeading, theme.SectionFieldToken,
	),
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	v.RegisterStructValidation(validateCommand, Command{})
	return v
}

func validateCommand(sl validator.StructLevel) {
	c := sl.Current().Interface().(Command)
	required, known := opRequirements[c.Op]
	if !known {
		sl.ReportError(c.Op, "op", "Op", "oneof", "")
		return
	}
	for _, name := range required {
		if c.missing(name) {
			sl.ReportError(nil, name, name, "required", string(c.Op))
		}
	}
	if fields, ok := opFields[c.Op]; ok && c.Field != "" {
		if _, ok := fields[c.Field]; !ok {
			sl.ReportError(c.Field, "field", "Field", "oneof", "")
		}
	}

	switch c.Op {
	case OpAddSection:
		if _, err := enums.ParseHomeSectionKind(c.Kind); c.Kind != "" && err != nil {
			sl.ReportError(c.Kind, "kind", "Kind", "oneof", "")
		}
	case OpAddCardItem:
		if _, err := enums.ParseCardItemKind(c.Kind); c.Kind != "" && err != nil {
			sl.ReportError(c.Kind, "kind", "Kind", "oneof", "")
		}
	case OpSetListPosition:
		s, _ := theme.CoerceString(c.Value)
		if _, err := enums.ParseListPosition(s); c.Value != nil && err != nil {
			sl.ReportError(c.Value, "value", "Value", "oneof", "")
		}
	case OpUpdateCardSetting:
		if c.Value != nil && cardSettingValue(c.Value) == nil {
			sl.ReportError(c.Value, "value", "Value", "scalar", "")
		}
	}
}

func (c Command) missing(name string) bool {
	switch name {
	case "bar_id":
		return c.BarID == ""
	case "list_id":
		return c.ListID == ""
	case "item_id":
		return c.ItemID == ""
	case "sub_link_id":
		return c.SubLinkID == ""
	case "inner_id":
		return c.InnerID == ""
	case "section_key":
		return c.SectionKey == nil
	case "card_key":
		return c.CardKey == ""
	case "kind":
		return c.Kind == ""
	case "field":
		return c.Field == ""
	case "name":
		return c.Name == ""
	case "from":
		return c.From == nil
	case "to":
		return c.To == nil
	case "enabled":
		return c.Enabled == nil
	case "value":
		return c.Value == nil
	}
	return false
}

// DecodeCommands parses a JSON array of commands. Numbers in values are kept
// as json.Number.
func DecodeCommands(raw []byte) ([]Command, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	var cmds []Command
	if err := dec.Decode(&cmds); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid commands").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return cmds, nil
}

// ValidateCommands checks every command and reports all failures together.
func ValidateCommands(cmds []Command) error {
	if len(cmds) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one command is required")
	}

	var (
		combined error
		details  = map[string]any{}
	)
	for i, cmd := range cmds {
		err := validate.Struct(cmd)
		if err == nil {
			continue
		}
		combined = multierr.Append(combined, fmt.Errorf("command %d: %w", i, err))
		details[fmt.Sprintf("commands[%d]", i)] = fieldMessages(err)
	}
	if combined == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, combined,
		fmt.Sprintf("%d invalid command(s)", len(multierr.Errors(combined)))).WithDetails(details)
}

func fieldMessages(err error) map[string]string {
	out := map[string]string{}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["command"] = err.Error()
		return out
	}
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "is required"
		case "oneof":
			out[fe.Field()] = "is not supported"
		case "max":
			out[fe.Field()] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "min":
			out[fe.Field()] = fmt.Sprintf("must be at least %s", fe.Param())
		default:
			out[fe.Field()] = "is invalid"
		}
	}
	return out
}

// cardSettingValue narrows a decoded JSON value to the string or bool card
// settings hold. It returns nil for anything else.
func cardSettingValue(v any) any {
	switch t := v.(type) {
	case string, bool:
		return t
	case json.Number:
		return t.String()
	}
	return nil
}

func (c Command) listRef() theme.ListRef {
	return theme.ListRef{BarID: c.BarID, ListID: c.ListID}
}

func (c Command) itemRef() theme.ItemRef {
	return theme.ItemRef{ListRef: c.listRef(), ItemID: c.ItemID}
}

func (c Command) subLinkRef() theme.SubLinkRef {
	return theme.SubLinkRef{ItemRef: c.itemRef(), SubLinkID: c.SubLinkID}
}

func (c Command) innerRef() theme.InnerSubLinkRef {
	return theme.InnerSubLinkRef{SubLinkRef: c.subLinkRef(), InnerID: c.InnerID}
}

func (c Command) enabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// apply runs a validated command through the mutation API.
func (c Command) apply(cfg theme.Config, sel theme.Selection) (theme.Config, theme.Selection) {
	switch c.Op {
	case OpUpdateTicker:
		return theme.UpdateTickerField(cfg, theme.TickerField(c.Field), c.Value), sel

	case OpAddBar:
		return theme.AddBar(cfg), sel
	case OpRemoveBar:
		return theme.RemoveBar(cfg, c.BarID), sel
	case OpUpdateBar:
		return theme.UpdateBarField(cfg, c.BarID, theme.BarField(c.Field), c.Value), sel

	case OpAddList:
		return theme.AddList(cfg, c.BarID), sel
	case OpRemoveList:
		return theme.RemoveList(cfg, c.listRef()), sel
	case OpSetListPosition:
		s, _ := theme.CoerceString(c.Value)
		pos, err := enums.ParseListPosition(s)
		if err != nil {
			return cfg, sel
		}
		return theme.SetListPosition(cfg, c.listRef(), pos), sel

	case OpAddItem:
		return theme.AddItem(cfg, c.listRef()), sel
	case OpRemoveItem:
		return theme.RemoveItem(cfg, c.itemRef()), sel
	case OpUpdateItem:
		return theme.UpdateItemField(cfg, c.itemRef(), theme.ItemField(c.Field), c.Value), sel
	case OpToggleSubLinks:
		return theme.ToggleSubLinks(cfg, c.itemRef(), c.enabled()), sel
	case OpSetCustomHTML:
		html, _ := theme.CoerceString(c.Value)
		return theme.SetCustomHTML(cfg, c.itemRef(), c.enabled(), html), sel

	case OpAddSubLink:
		return theme.AddSubLink(cfg, c.itemRef()), sel
	case OpRemoveSubLink:
		return theme.RemoveSubLink(cfg, c.subLinkRef()), sel
	case OpUpdateSubLink:
		return theme.UpdateSubLinkField(cfg, c.subLinkRef(), theme.SubLinkField(c.Field), c.Value), sel

	case OpToggleInnerSubLinks:
		return theme.ToggleInnerSubLinks(cfg, c.subLinkRef(), c.enabled()), sel
	case OpAddInnerSubLink:
		return theme.AddInnerSubLink(cfg, c.subLinkRef()), sel
	case OpRemoveInnerSubLink:
		return theme.RemoveInnerSubLink(cfg, c.innerRef()), sel
	case OpUpdateInnerSubLink:
		return theme.UpdateInnerSubLinkField(cfg, c.innerRef(), theme.InnerSubLinkField(c.Field), c.Value), sel

	case OpAddSection:
		kind, err := enums.ParseHomeSectionKind(c.Kind)
		if err != nil {
			return cfg, sel
		}
		return theme.AddSection(cfg, kind), sel
	case OpRemoveSection:
		return theme.RemoveSection(cfg, *c.SectionKey), sel
	case OpUpdateSection:
		return theme.UpdateSectionField(cfg, *c.SectionKey, theme.SectionField(c.Field), c.Value), sel
	case OpMoveSection:
		return theme.MoveSection(cfg, *c.From, *c.To), sel

	case OpSetLayoutSetting:
		value, _ := theme.CoerceString(c.Value)
		return theme.SetLayoutSetting(cfg, c.Name, value), sel
	case OpAddCardItem:
		kind, err := enums.ParseCardItemKind(c.Kind)
		if err != nil {
			return cfg, sel
		}
		return theme.AddCardItem(cfg, kind), sel
	case OpRemoveCardItem:
		return theme.RemoveCardItem(cfg, c.CardKey), sel
	case OpUpdateCardSetting:
		return theme.UpdateCardItemSetting(cfg, c.CardKey, c.Name, cardSettingValue(c.Value)), sel

	case OpSelect:
		return cfg, theme.Selection{
			BarID:      c.BarID,
			ListID:     c.ListID,
			ItemID:     c.ItemID,
			SubLinkID:  c.SubLinkID,
			SectionKey: c.SectionKey,
		}
	}
	return cfg, sel
}

// edits reports whether the command can change the config.
func (c Command) edits() bool {
	return c.Op != OpSelect
}
