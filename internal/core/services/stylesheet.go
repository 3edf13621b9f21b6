package services

// WorkSkinCSS — таблица стилей для HTML-фрагмента. Селекторы ограничены
// #workskin, чтобы фрагмент можно было вставить в чужую страницу.
const WorkSkinCSS = `/* Chat work skin */
#workskin .chat-container {
  max-width: 600px;
  margin: 20px auto;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
  background-color: #f5f5f5;
  padding: 20px;
  border-radius: 20px;
  display: flex;
  flex-direction: column;
  gap: 10px;
}
#workskin .chat-row {
  display: flex;
  align-items: flex-end;
  gap: 8px;
}
#workskin .chat-row.sent {
  justify-content: flex-end;
}
#workskin .chat-row.recv {
  justify-content: flex-start;
}
#workskin .chat-row.time {
  justify-content: center;
}
#workskin .chat-time-text {
  font-size: 12px;
  color: #8e8e93;
}
#workskin .chat-group {
  display: flex;
  flex-direction: column;
  gap: 2px;
}
#workskin .chat-name {
  font-size: 12px;
  color: #8e8e93;
  margin-left: 48px;
}
#workskin .chat-avatar {
  width: 40px;
  height: 40px;
  border-radius: 50%;
  flex-shrink: 0;
}
#workskin .chat-bubble {
  max-width: 70%;
  padding: 10px 14px;
  border-radius: 18px;
  line-height: 1.4;
  word-wrap: break-word;
  white-space: pre-wrap;
}
#workskin .chat-row.sent .chat-bubble {
  background-color: #007aff;
  color: #ffffff;
  border-bottom-right-radius: 4px;
}
#workskin .chat-row.recv .chat-bubble {
  background-color: #e5e5ea;
  color: #000000;
  border-bottom-left-radius: 4px;
}
#workskin .chat-bubble.image-bubble {
  padding: 4px;
  background-color: transparent;
}
`
