package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrAborted 用户中断了输入（Ctrl+C 或输入流结束）
var ErrAborted = errors.New("prompt aborted")

// Option 是菜单中的一项，Key 为程序使用的值，Label 为展示文本
type Option struct {
	Key   string
	Label string
}

// Prompter 抽象了 shell 的三种交互方式
type Prompter interface {
	Select(title string, options []Option) (string, error)
	Input(title string, validate func(string) error) (string, error)
	Confirm(title string, defaultValue bool) (bool, error)
}

// NewPrompter 终端下使用 huh 表单，管道或重定向输入时退化为逐行读取
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return formPrompter{}
	}
	return NewLinePrompter(in, out)
}

type formPrompter struct{}

func (formPrompter) Select(title string, options []Option) (string, error) {
	choices := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		choices = append(choices, huh.NewOption(option.Label, option.Key))
	}

	var value string
	err := huh.NewSelect[string]().
		Title(title).
		Options(choices...).
		Value(&value).
		Run()
	return value, formError(err)
}

func (formPrompter) Input(title string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().Title(title).Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	err := field.Run()
	return strings.TrimSpace(value), formError(err)
}

func (formPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	value := defaultValue
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value).
		Run()
	return value, formError(err)
}

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

// LinePrompter 逐行读取答案，选项可以用序号或文本回答
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Select(title string, options []Option) (string, error) {
	for {
		fmt.Fprintln(p.out, title)
		for i, option := range options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, option.Label)
		}
		fmt.Fprint(p.out, "> ")

		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(options) {
			return options[n-1].Key, nil
		}
		for _, option := range options {
			if strings.EqualFold(answer, option.Label) {
				return option.Key, nil
			}
		}
		fmt.Fprintf(p.out, "invalid choice %q\n", answer)
	}
}

func (p *LinePrompter) Input(title string, validate func(string) error) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s ", title)
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if validate == nil {
			return answer, nil
		}
		if err := validate(answer); err != nil {
			fmt.Fprintln(p.out, err.Error())
			continue
		}
		return answer, nil
	}
}

func (p *LinePrompter) Confirm(title string, defaultValue bool) (bool, error) {
	hint := "[y/N]"
	if defaultValue {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.out, "%s %s ", title, hint)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultValue, nil
		case "y", "yes", "是":
			return true, nil
		case "n", "no", "否":
			return false, nil
		}
	}
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	case errors.Is(err, io.EOF):
		return "", ErrAborted
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}
