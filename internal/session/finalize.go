package session

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/dcinit/internal/config"
	"github.com/imamik/dcinit/internal/run"
	"github.com/imamik/dcinit/internal/service"
)

// finalize completes a successful attempt: lock down the keytab, install
// the generated Kerberos config, start the domain controller and wait for
// it, acquire an administrator ticket, report, and discard backups.
func (s *Session) finalize(ctx context.Context) error {
	req := s.Request

	if err := chownFile(s.Paths.Keytab, 0, 0); err != nil {
		return fmt.Errorf("chown keytab: %w", err)
	}
	if err := os.Chmod(s.Paths.Keytab, 0600); err != nil {
		return fmt.Errorf("chmod keytab: %w", err)
	}

	krb5, err := os.ReadFile(s.Paths.SambaKrb5Conf)
	if err != nil {
		return fmt.Errorf("read generated krb5 config: %w", err)
	}
	if err := os.WriteFile(s.Paths.Krb5Conf, krb5, 0644); err != nil {
		return fmt.Errorf("install krb5 config: %w", err)
	}

	if err := s.Services.Start(ctx, config.DCService); err != nil {
		return err
	}
	s.Observer.Printf("waiting for %s to become active", config.DCService)
	if err := service.WaitActive(ctx, s.Services, config.DCService, pollInterval); err != nil {
		return err
	}

	result, err := s.Runner.Run(ctx, run.KinitStep(req))
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("initial credential acquisition failed:\n%s", result.CombinedOutput)
	}

	s.Prompt.ShowInfo(s.summary())
	s.backup.Cleanup()
	return nil
}

// summary builds the closing report. Create mode includes the connection
// details new clients need.
func (s *Session) summary() string {
	req := s.Request

	msg := fmt.Sprintf("Domain configuration complete.\n\n"+
		"Realm:   %s\nDomain:  %s\n\n"+
		"Make sure this server keeps a static IP address.",
		req.Realm, req.Domain)

	if !req.Joining() {
		msg += fmt.Sprintf("\n\nClients joining %s must use this server as their nameserver\n"+
			"and authenticate as %s@%s.",
			req.Domain, config.AdminUser, req.Realm)
	}
	return msg
}
