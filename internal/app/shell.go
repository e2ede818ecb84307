package app

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Shell runs the interactive menu on in/out until the user picks 0 or the
// input ends. Invalid menu choices and malformed identifiers re-prompt; the
// upload prompt repeats until an upload succeeds.
func (a *App) Shell(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintln(out, welcomeMessage)

	for {
		choice, ok := promptChoice(sc, out)
		if !ok {
			return sc.Err()
		}

		switch choice {
		case 0:
			fmt.Fprintln(out, goodbyeMessage)
			return nil
		case 1:
			ok = a.shellUpload(sc, out)
		case 2:
			ok = a.shellVerify(sc, out)
		case 3:
			ok = a.shellPath(sc, out)
		}
		if !ok {
			return sc.Err()
		}
	}
}

func (a *App) shellUpload(sc *bufio.Scanner, out io.Writer) bool {
	for {
		fmt.Fprintln(out, uploadPrompt)
		path, ok := readLine(sc)
		if !ok {
			return false
		}

		id, err := a.Upload(path)
		if err != nil {
			fmt.Fprintln(out, FormatError(err))
			continue
		}
		fmt.Fprintln(out, FormatUploaded(id))
		return true
	}
}

func (a *App) shellVerify(sc *bufio.Scanner, out io.Writer) bool {
	id, ok := a.promptUUID(sc, out, verifyPrompt)
	if !ok {
		return false
	}

	report, err := a.Verify(id)
	if err != nil {
		fmt.Fprintln(out, FormatError(err))
		return true
	}
	fmt.Fprintln(out, FormatReport(report))
	return true
}

func (a *App) shellPath(sc *bufio.Scanner, out io.Writer) bool {
	id, ok := a.promptUUID(sc, out, pathPrompt)
	if !ok {
		return false
	}

	path, err := a.Path(id)
	if err != nil {
		fmt.Fprintln(out, FormatError(err))
		return true
	}
	fmt.Fprintln(out, path)
	return true
}

// promptChoice shows the menu until a number in [0, 3] is entered.
func promptChoice(sc *bufio.Scanner, out io.Writer) (int, bool) {
	for {
		fmt.Fprintln(out, menuPrompt)
		line, ok := readLine(sc)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 0 && n <= 3 {
			return n, true
		}
	}
}

// promptUUID asks until a well-formed version 5 UUID is entered.
func (a *App) promptUUID(sc *bufio.Scanner, out io.Writer, prompt string) (string, bool) {
	for {
		fmt.Fprintln(out, prompt)
		id, ok := readLine(sc)
		if !ok {
			return "", false
		}
		if err := a.CheckUUID(id); err != nil {
			fmt.Fprintln(out, FormatError(err))
			continue
		}
		return id, true
	}
}

func readLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}
