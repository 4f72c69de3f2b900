package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hbnb/internal/literal"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func builtinCommands() map[string]command {
	return map[string]command{
		"create": {
			run:   func(c *Console, args string) (bool, error) { return false, c.create(args) },
			usage: "create <class>\n\tCreate a new instance of <class>, save it, and print its id.",
		},
		"show": {
			run:   func(c *Console, args string) (bool, error) { return false, c.show(args) },
			usage: "show <class> <id>\n<class>.show(<id>)\n\tPrint the string form of an instance.",
		},
		"destroy": {
			run:   func(c *Console, args string) (bool, error) { return false, c.destroy(args) },
			usage: "destroy <class> <id>\n<class>.destroy(<id>)\n\tDelete an instance and save the change.",
		},
		"all": {
			run:   func(c *Console, args string) (bool, error) { return false, c.all(args) },
			usage: "all [<class>]\n<class>.all()\n\tPrint the string form of every instance, or of every instance of <class>.",
		},
		"count": {
			run:   func(c *Console, args string) (bool, error) { return false, c.count(args) },
			usage: "count <class>\n<class>.count()\n\tPrint the number of instances of <class>.",
		},
		"update": {
			run: func(c *Console, args string) (bool, error) { return false, c.update(args) },
			usage: "update <class> <id> <attribute> <value>\n" +
				"update <class> <id> {\"<attribute>\": <value>, ...}\n" +
				"<class>.update(<id>, <attribute>, <value>)\n" +
				"<class>.update(<id>, {\"<attribute>\": <value>, ...})\n" +
				"\tSet attributes on an instance and save the change.",
		},
		"help": {
			run:   func(c *Console, args string) (bool, error) { return false, c.help(args) },
			usage: "help [<command>]\n\tList commands, or describe one.",
		},
		"quit": {
			run:   func(c *Console, args string) (bool, error) { return true, nil },
			usage: "quit\n\tExit the program.",
		},
		"EOF": {
			run:   func(c *Console, args string) (bool, error) { return true, nil },
			usage: "EOF\n\tExit the program.",
		},
	}
}

// checkKind applies the kind half of the precondition chain.
func (c *Console) checkKind(kind string) error {
	if kind == "" {
		return ErrClassMissing
	}
	if !c.registry.Has(kind) {
		return ErrClassUnknown
	}
	return nil
}

// lookup applies the full precondition chain and returns the entity.
func (c *Console) lookup(kind, id string) (types.Entity, error) {
	if err := c.checkKind(kind); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrIDMissing
	}
	e, err := c.store.Find(kind, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil, ErrNoInstance
	}
	return e, err
}

func (c *Console) create(args string) error {
	kind, _ := nextToken(args)
	if err := c.checkKind(kind); err != nil {
		return err
	}
	e, err := c.store.Create(kind)
	if errors.Is(err, types.ErrUnknownKind) {
		return ErrClassUnknown
	}
	if err != nil {
		return err
	}
	if err := c.store.Save(e); err != nil {
		_ = c.store.Delete(kind, e.Base().ID)
		return err
	}
	c.println(e.Base().ID)
	return nil
}

func (c *Console) show(args string) error {
	kind, rest := nextToken(args)
	id, _ := nextToken(rest)
	return c.showEntity(kind, id)
}

func (c *Console) showEntity(kind, id string) error {
	e, err := c.lookup(kind, id)
	if err != nil {
		return err
	}
	s, err := types.Format(e)
	if err != nil {
		return err
	}
	c.println(s)
	return nil
}

func (c *Console) destroy(args string) error {
	kind, rest := nextToken(args)
	id, _ := nextToken(rest)
	return c.destroyEntity(kind, id)
}

func (c *Console) destroyEntity(kind, id string) error {
	if _, err := c.lookup(kind, id); err != nil {
		return err
	}
	if err := c.store.Delete(kind, id); err != nil {
		return err
	}
	return c.store.Persist()
}

func (c *Console) all(args string) error {
	kind, _ := nextToken(args)
	if kind != "" && !c.registry.Has(kind) {
		return ErrClassUnknown
	}

	forms := []string{}
	for _, obj := range c.store.All() {
		if kind != "" && !strings.HasPrefix(obj.Key, kind+".") {
			continue
		}
		s, err := types.Format(obj.Entity)
		if err != nil {
			return err
		}
		forms = append(forms, s)
	}
	c.println("[" + strings.Join(forms, ", ") + "]")
	return nil
}

func (c *Console) count(args string) error {
	argv := tokens(args)
	if len(argv) != 1 {
		return ErrInvalidCommand
	}
	if !c.registry.Has(argv[0]) {
		return ErrClassUnknown
	}
	c.println(strconv.Itoa(c.store.Count(argv[0])))
	return nil
}

// update handles the verb-first form. After the id comes either a mapping
// literal or an attribute token followed by a value token.
func (c *Console) update(args string) error {
	kind, rest := nextToken(args)
	id, rest := nextToken(rest)
	e, err := c.lookup(kind, id)
	if err != nil {
		return err
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return ErrAttrMissing
	}
	if strings.HasPrefix(rest, "{") {
		v, err := literal.Parse(rest)
		if err != nil {
			return ErrInvalidCommand
		}
		m, ok := v.(literal.Mapping)
		if !ok {
			return ErrInvalidCommand
		}
		return c.apply(e, m.Map())
	}

	field, rest := nextToken(rest)
	if strings.TrimSpace(rest) == "" {
		return ErrValueMissing
	}
	value, _ := nextToken(rest)
	return c.apply(e, map[string]any{field: value})
}

// updateDotted handles "<Kind>.update(<id>, ...)". The text after the first
// comma is one mapping literal or an attribute literal and a value literal.
func (c *Console) updateDotted(kind, arg string) error {
	idPart, rest, ok := strings.Cut(arg, ",")
	if !ok {
		return ErrInvalidCommand
	}
	e, err := c.lookup(kind, unquote(idPart))
	if err != nil {
		return err
	}

	values, err := literal.ParseList(rest)
	if err != nil {
		return ErrInvalidCommand
	}
	switch len(values) {
	case 0:
		return ErrAttrMissing
	case 1:
		if m, ok := values[0].(literal.Mapping); ok {
			return c.apply(e, m.Map())
		}
		return ErrValueMissing
	case 2:
		field, ok := values[0].(string)
		if !ok {
			return ErrInvalidCommand
		}
		if _, isMapping := values[1].(literal.Mapping); isMapping {
			return ErrInvalidCommand
		}
		return c.apply(e, map[string]any{field: values[1]})
	default:
		return ErrInvalidCommand
	}
}

// apply assigns values to e and persists the whole table. Nothing is
// assigned when any declared field fails to coerce.
func (c *Console) apply(e types.Entity, values map[string]any) error {
	if err := c.registry.Assign(e, values); err != nil {
		c.logger.Debug("update rejected", zap.String("key", types.KeyOf(e)), zap.Error(err))
		return ErrInvalidValue
	}
	return c.store.Persist()
}

// dotted runs a "<Kind>.<verb>(<arg>)" line.
func (c *Console) dotted(line string) error {
	call, err := parseDotted(line)
	if err != nil {
		return err
	}
	if !c.registry.Has(call.kind) {
		return ErrClassUnknown
	}
	switch call.verb {
	case "show":
		return c.showEntity(call.kind, unquote(call.arg))
	case "destroy":
		return c.destroyEntity(call.kind, unquote(call.arg))
	case "update":
		return c.updateDotted(call.kind, call.arg)
	default:
		return ErrInvalidCommand
	}
}

func (c *Console) help(args string) error {
	topic, _ := nextToken(args)
	if topic == "" {
		c.println("")
		c.println("Documented commands (type help <topic>):")
		c.println("========================================")
		c.println(strings.Join(c.commandNames(), "  "))
		c.println("")
		return nil
	}
	cmd, ok := c.commands[topic]
	if !ok {
		c.println(fmt.Sprintf("*** No help on %s", topic))
		return nil
	}
	c.println(cmd.usage)
	return nil
}
