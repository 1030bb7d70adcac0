package usecase

import (
	"fmt"
	"strings"
)

const (
	msgGreeting      = "مرحبًا بك في بوت OTP! استخدم /getotp للحصول على كلمة المرور لمرة واحدة.\nWelcome to the OTP bot! Use /getotp to get your one-time password."
	msgFarewell      = "❌ تم إلغاء العملية. شكراً لاستخدامك البوت!\n❌ Operation cancelled. Thank you for using the bot!"
	msgInvalidEmail  = "❌ بريد إلكتروني غير صالح!\n❌ Invalid email address!"
	msgNotRegistered = "❌ البريد الإلكتروني غير مسجل.\n❌ This email is not registered."
	msgIssueFailed   = "⚠️ تعذر توليد كلمة المرور لهذا البريد. تواصل مع المسؤول.\n⚠️ Could not generate a password for this email. Please contact the administrator."
)

func msgPrompt(domains []string) string {
	list := strings.Join(domains, ", ")
	return fmt.Sprintf(
		"يرجى إدخال بريدك الإلكتروني (%s) للحصول على كلمة المرور لمرة واحدة.\nيمكنك كتابة /cancel لإلغاء العملية.\n"+
			"Please enter your email (%s) to receive your one-time password.\nSend /cancel to stop.",
		list, list,
	)
}

func msgExpiring(seconds uint) string {
	return fmt.Sprintf(
		"⚠️ كلمة المرور الحالية ستنتهي خلال %d ثانية.\nانتظر قليلاً حتى يتم توليد كلمة مرور جديدة.\n"+
			"⚠️ The current password expires in %d seconds.\nPlease wait a moment and send your email again.",
		seconds, seconds,
	)
}

func msgIssued(code string, seconds uint) string {
	return fmt.Sprintf(
		"✅ كلمة المرور: %s\n⏳ الوقت المتبقي لانتهاء الصلاحية: %d ثانية\n"+
			"✅ Password: %s\n⏳ Valid for another %d seconds",
		code, seconds, code, seconds,
	)
}
